package processor

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/chunkproc/cairohints/hint"
	"github.com/chunkproc/cairohints/internal/stats"
)

// Config holds the processor settings set through options.
type Config struct {
	Logger     zerolog.Logger
	Output     io.Writer // where print hints write
	ExtraHints []hint.Hint
	Providers  []hint.Provider
	Schema     *jsonschema.Schema
	Stats      *stats.GlobalStats
}

// Option defines an option for the hint processor.
type Option func(c *Config) error

// WithLogger sets the logger. Default is the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// WithOutput sets the writer print hints write to. Default is stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Config) error {
		c.Output = w
		return nil
	}
}

// WithExtraHints registers host program hints. They are tried after the
// built-in ones and their codes must not collide with them.
func WithExtraHints(hints ...hint.Hint) Option {
	return func(c *Config) error {
		c.ExtraHints = append(c.ExtraHints, hints...)
		return nil
	}
}

// WithProvider appends a provider at the end of the dispatch chain.
func WithProvider(p hint.Provider) Option {
	return func(c *Config) error {
		c.Providers = append(c.Providers, p)
		return nil
	}
}

// WithSchema validates the private input against s at construction.
func WithSchema(s *jsonschema.Schema) Option {
	return func(c *Config) error {
		c.Schema = s
		return nil
	}
}

// WithStats records per hint counters into s.
func WithStats(s *stats.GlobalStats) Option {
	return func(c *Config) error {
		c.Stats = s
		return nil
	}
}
