package analysis

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/spektr-org/seguros/schema"
)

// ============================================================================
// OPTIONS — Functional options for Run()
// ============================================================================

// Option configures a run via functional options pattern.
type Option func(*config)

type config struct {
	Input     string        // CSV path, relative paths resolve from the working directory
	OutputDir string        // where figures and tables are written
	Policy    schema.Policy // unmapped categorical values: pass through or reject
	Schema    *schema.Config
	Logger    *zap.Logger
	Stdout    io.Writer // console reports
}

// WithStrict rejects categorical values outside the recode tables.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.Policy = schema.Lenient
		if strict {
			c.Policy = schema.Strict
		}
	}
}

// WithInput overrides the input CSV path.
func WithInput(path string) Option {
	return func(c *config) {
		c.Input = path
	}
}

// WithOutputDir writes outputs under dir instead of the working directory.
func WithOutputDir(dir string) Option {
	return func(c *config) {
		c.OutputDir = dir
	}
}

// WithSchema replaces the embedded insurance schema.
func WithSchema(sch *schema.Config) Option {
	return func(c *config) {
		c.Schema = sch
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.Logger = logger
	}
}

// WithStdout redirects console reports.
func WithStdout(w io.Writer) Option {
	return func(c *config) {
		c.Stdout = w
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Input:     InputFile,
		OutputDir: ".",
		Policy:    schema.Lenient,
		Logger:    zap.NewNop(),
		Stdout:    os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Schema == nil {
		cfg.Schema = schema.Insurance()
	}
	return cfg
}
