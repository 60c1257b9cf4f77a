package options

import (
	"io"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/regprune/pkg/cmdhelper"
	"github.com/wuxler/regprune/pkg/util/xhttp"
	"github.com/wuxler/regprune/pkg/xlog"
)

const (
	// FlagCategoryLogging is the category name for logging flags.
	FlagCategoryLogging = "[Logging]"
)

// NewCommon returns a *Common with default values.
func NewCommon() *Common {
	return &Common{
		LogLevel:  "info",
		LogFormat: xlog.FormatText,
	}
}

// Common are options that are common to all commands.
type Common struct {
	Debug     bool   `json:"debug,omitempty" yaml:"debug,omitempty"`
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`
	LogFile   string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// Flags returns the []cli.Flag related to current options.
func (o *Common) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "debug",
			Aliases:     []string{"d"},
			Sources:     cli.EnvVars("REGPRUNE_DEBUG"),
			Usage:       "enable debug logging and dump registry requests",
			Destination: &o.Debug,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Sources:     cli.EnvVars("REGPRUNE_LOG_LEVEL"),
			Usage:       `log level, oneof ["debug", "info", "warn", "error"]`,
			Value:       o.LogLevel,
			Destination: &o.LogLevel,
			Validator: func(s string) error {
				_, err := xlog.ParseLevel(s)
				return err
			},
		},
		&cli.StringFlag{
			Name:        "log-format",
			Sources:     cli.EnvVars("REGPRUNE_LOG_FORMAT"),
			Usage:       `log format of stderr, oneof ["text", "json"]`,
			Value:       o.LogFormat,
			Destination: &o.LogFormat,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Sources:     cli.EnvVars("REGPRUNE_LOG_FILE"),
			Usage:       "also write json logs to the rotated file",
			Value:       o.LogFile,
			Destination: &o.LogFile,
		},
	}
	cmdhelper.SetFlagsCategory(FlagCategoryLogging, flags...)
	return flags
}

// LogConfig returns the logging configuration built from the flags.
func (o *Common) LogConfig(w io.Writer) (xlog.Config, error) {
	c := xlog.NewConfig()
	c.StdWriter = w
	c.StdFormat = o.LogFormat
	c.Path = o.LogFile
	lvl, err := xlog.ParseLevel(o.LogLevel)
	if err != nil {
		return c, err
	}
	c.Level = lvl
	if o.Debug {
		c.Level = xlog.LevelDebug
		c.AddSource = true
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// SetupLogger installs the default logger writing to w.
func (o *Common) SetupLogger(w io.Writer) error {
	c, err := o.LogConfig(w)
	if err != nil {
		return err
	}
	xlog.SetDefault(xlog.New(c))
	return nil
}

// WrapTransport dumps the registry traffic when debug is enabled.
func (o *Common) WrapTransport(tr http.RoundTripper) http.RoundTripper {
	if o.Debug && tr != nil {
		return xhttp.NewDumpTransport(tr)
	}
	return tr
}
