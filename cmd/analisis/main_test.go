package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/seguros/analysis"
)

const csvData = `age,sex,bmi,children,smoker,region,charges
19,female,27.9,0,yes,southwest,16884.924
18,male,33.77,1,no,southeast,1725.5523
28,male,33,3,no,southeast,4449.462
33,male,22.705,0,no,northwest,21984.47061
32,male,28.88,0,no,northwest,3866.8552
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandRunsPipeline(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, analysis.InputFile)
	require.NoError(t, os.WriteFile(input, []byte(csvData), 0o644))

	out, err := execute(t, "--input", input, "--out", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "(5, 7)\n"))

	for _, name := range []string{analysis.CorrelationImage, analysis.AgesImage, analysis.BMITable, analysis.CostsTable} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRootCommandStrictFlag(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, analysis.InputFile)
	require.NoError(t, os.WriteFile(input, []byte(csvData+"40,unknown,25,0,no,southeast,1000\n"), 0o644))

	_, err := execute(t, "--input", input, "--out", dir, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestRootCommandRejectsArgs(t *testing.T) {
	_, err := execute(t, "extra")
	assert.Error(t, err)
}
