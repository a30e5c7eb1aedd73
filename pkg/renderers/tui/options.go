package tui

// OutputFormat selects how Render encodes the collected answers.
type OutputFormat string

const (
	OutputFormatFormURLEncoded OutputFormat = "form"
	OutputFormatJSON           OutputFormat = "json"
	// OutputFormatPrettyText is one "name: value" line per field, sorted.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Retries per field before Render gives up with ErrTooManyAttempts.
const defaultMaxAttempts = 5

type Option func(*Renderer)

func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithMaxAttempts sets how often a field is asked again after its answer
// fails the local checks. Non-positive values keep the default.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}
