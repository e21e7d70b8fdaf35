package logger

import (
	"io"
	"log/slog"
	"os"
)

// options collects the handler configuration assembled by Option functions
// before the logger is constructed.
type options struct {
	level  slog.Leveler
	output io.Writer
	json   bool
	attrs  []slog.Attr
}

// Option configures the logger produced by New.
type Option func(*options)

// WithLevel sets the minimum level the logger emits.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		if level != nil {
			o.level = level
		}
	}
}

// WithJSONFormatter switches output to one JSON object per record.
func WithJSONFormatter() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithTextFormatter switches output to the human-readable key=value format.
// This is the default.
func WithTextFormatter() Option {
	return func(o *options) {
		o.json = false
	}
}

// WithOutput redirects log output. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr attaches attributes to every record the logger emits.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// WithDevelopment configures a text logger at debug level tagged with the
// application name. Later options still apply and may override any of it.
func WithDevelopment(appName string) Option {
	return func(o *options) {
		o.json = false
		o.level = slog.LevelDebug
		o.output = os.Stdout
		o.attrs = append(o.attrs,
			slog.String("app", appName),
			slog.String("env", "development"),
		)
	}
}

// WithStaging configures a JSON logger at info level tagged with the
// application name.
func WithStaging(appName string) Option {
	return func(o *options) {
		o.json = true
		o.level = slog.LevelInfo
		o.output = os.Stdout
		o.attrs = append(o.attrs,
			slog.String("app", appName),
			slog.String("env", "staging"),
		)
	}
}

// WithProduction configures a JSON logger at info level tagged with the
// application name.
func WithProduction(appName string) Option {
	return func(o *options) {
		o.json = true
		o.level = slog.LevelInfo
		o.output = os.Stdout
		o.attrs = append(o.attrs,
			slog.String("app", appName),
			slog.String("env", "production"),
		)
	}
}

// New builds an slog.Logger from the given options. Without options it emits
// text records at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var handler slog.Handler
	if o.json {
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(o.output, handlerOpts)
	}
	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}

	return slog.New(handler)
}

// SetAsDefault installs log as the process-wide slog default, so plain
// slog.Info calls and libraries that use slog.Default route through it.
func SetAsDefault(log *slog.Logger) {
	if log != nil {
		slog.SetDefault(log)
	}
}
