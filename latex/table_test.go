package latex

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/seguros/engine"
)

// ============================================================================
// LATEX TESTS
// ============================================================================

func fourColumns() []engine.ColumnKey {
	return []engine.ColumnKey{
		{Label: "No/Masculino"}, {Label: "No/Femenino"},
		{Label: "Si/Masculino"}, {Label: "Si/Femenino"},
	}
}

func sampleTable() *engine.PivotTable {
	return &engine.PivotTable{
		Title:   "costos",
		Rows:    []string{"20-25", "65-70"},
		Columns: fourColumns(),
		Cells: [][]engine.Cell{
			{{Value: 1100, Valid: true}, {}, {}, {Value: 3000, Valid: true}},
			{{Value: 5000, Valid: true}, {}, {}, {}},
		},
	}
}

func TestRenderExactTemplate(t *testing.T) {
	got, err := Render(sampleTable(), "Promedios de costos por edad, sexo y fumador", "tab:costos")
	require.NoError(t, err)

	want := "\\begin{table}[htb]\n" +
		"\t\\label{tab:costos} \n" +
		"\t\\caption{Promedios de costos por edad, sexo y fumador} \n" +
		"\t\\centering\n" +
		"\t\\begin{tabular}{ |c|c|c|c|c| } \n" +
		"\t\t\\hline\n" +
		"\t\t\\multirow{2}{*}{Edad} & \\multicolumn{2}{c|}{No fumador} & \\multicolumn{2}{c|}{Fumador} \\\\ \n" +
		"\t\t\\cline{2-5} \n" +
		"& Masculino & Femenino & Masculino & Femenino \\\\ \n" +
		"\t\t\\hline\n" +
		"\t\t20-25 & 1100.0 & nan & nan & 3000.0 \\\\ \n" +
		"\t\t65-70 & 5000.0 & nan & nan & nan \\\\ \n" +
		"\t\t\\hline \n" +
		"\t\\end{tabular} \n" +
		"\\end{table} \n"
	assert.Equal(t, want, got)
}

func TestRenderEmptyTable(t *testing.T) {
	got, err := Render(&engine.PivotTable{Columns: fourColumns()}, "c", "l")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "\\begin{table}[htb]\n"))
	assert.True(t, strings.HasSuffix(got, "\t\t\\hline\n\t\t\\hline \n\t\\end{tabular} \n\\end{table} \n"))
}

func TestRenderRejectsWrongColumnCount(t *testing.T) {
	table := sampleTable()
	table.Columns = table.Columns[:3]

	_, err := Render(table, "c", "l")
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1100, "1100.0"},
		{26.0 + 2.0/3, "26.67"},
		{26, "26.0"},
		{22.5, "22.5"},
		{0.125, "0.12"},
		{0.375, "0.38"},
		{13270.422265141257, "13270.42"},
		{-3.14159, "-3.14"},
		{0, "0.0"},
		{0.001, "0.0"},
		{1e20, "1e+20"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "input %v", tt.in)
	}
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, MissingCell, FormatCell(engine.Cell{}))
	assert.Equal(t, "30.0", FormatCell(engine.Cell{Value: 30, Valid: true}))
}

func TestEscaping(t *testing.T) {
	table := sampleTable()
	table.Rows[0] = "20_25"

	plain, err := Render(table, "50% & más", "tab:x")
	require.NoError(t, err)
	assert.Contains(t, plain, "\\caption{50% & más}")
	assert.Contains(t, plain, "\t\t20_25 & ")

	escaped, err := Render(table, "50% & más", "tab:x", WithEscaping())
	require.NoError(t, err)
	assert.Contains(t, escaped, "\\caption{50\\% \\& más}")
	assert.Contains(t, escaped, "\t\t20\\_25 & ")

	assert.Equal(t, `\textbackslash{}\{x\}\#`, Escape(`\{x}#`))
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "costos.tex")
	require.NoError(t, os.WriteFile(path, []byte("stale contents that are longer than nothing"), 0o644))

	require.NoError(t, WriteFile(path, sampleTable(), "c", "l"))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteFile(path, sampleTable(), "c", "l"))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotContains(t, string(first), "stale")
}
