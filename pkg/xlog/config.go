package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Supported stdout formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewConfig returns the default logging configuration.
func NewConfig() Config {
	return Config{
		Level:        slog.LevelInfo,
		AddSource:    false,
		AttrReplacer: NormalizeSourceAttrReplacer(),
		StdFormat:    FormatText,
		StdWriter:    os.Stderr,
		MaxSize:      30, //nolint:mnd // megabytes
	}
}

// Config configures the handlers built by New.
type Config struct {
	// Level is the minimum level to output, default to LevelInfo.
	Level slog.Level `json:"level" yaml:"level"`
	// AddSource adds the file and line of the log call.
	AddSource bool `json:"add_source" yaml:"add_source"`
	// AttrReplacer rewrites attributes, default to NormalizeSourceAttrReplacer.
	AttrReplacer AttrReplacer `json:"-" yaml:"-"`

	// StdFormat is the format of the standard output, oneof ["text", "json"].
	StdFormat string `json:"std_format" yaml:"std_format"`
	// StdWriter is the standard output, default to os.Stderr so that logs do
	// not mix with command output.
	StdWriter io.Writer `json:"-" yaml:"-"`

	// Path is the log file path. Logs are not written to a file when empty.
	// The file always receives json lines.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// MaxSize is the size in megabytes of a log file before it gets rotated.
	MaxSize int `json:"max_size,omitempty" yaml:"max_size,omitempty"`
	// MaxAge is the number of days to retain old log files, 0 keeps all.
	MaxAge int `json:"max_age,omitempty" yaml:"max_age,omitempty"`
	// MaxBackups is the number of old log files to retain, 0 keeps all.
	MaxBackups int `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	// Compress gzips the rotated log files.
	Compress bool `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	switch c.StdFormat {
	case "", FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported log format %q, oneof [%q, %q]", c.StdFormat, FormatText, FormatJSON)
	}
}

// BuildHandler creates a new slog.Handler with config.
func (c *Config) BuildHandler() slog.Handler {
	opts := c.buildHandlerOptions()
	stdout := c.stdWriter()
	fw := c.buildFileWriter()

	if c.StdFormat == FormatJSON {
		writer := stdout
		if fw != nil {
			writer = io.MultiWriter(stdout, fw)
		}
		return NewLeveledHandlerCreator(JSONHandlerCreator)(writer, opts)
	}

	handlers := []slog.Handler{
		NewLeveledHandlerCreator(TextHandlerCreator)(stdout, opts),
	}
	if fw != nil {
		handlers = append(handlers, NewLeveledHandlerCreator(JSONHandlerCreator)(fw, opts))
	}
	return MultiHandler(handlers...)
}

func (c *Config) stdWriter() io.Writer {
	if c.StdWriter != nil {
		return c.StdWriter
	}
	return os.Stderr
}

func (c *Config) buildFileWriter() io.Writer {
	if c.Path == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   c.Path,
		MaxSize:    c.MaxSize,
		MaxAge:     c.MaxAge,
		MaxBackups: c.MaxBackups,
		Compress:   c.Compress,
	}
}

func (c *Config) buildHandlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource:   c.AddSource,
		Level:       c.Level,
		ReplaceAttr: c.AttrReplacer,
	}
}
