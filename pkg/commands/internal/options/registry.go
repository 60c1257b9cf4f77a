package options

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/regprune/pkg/authn"
	"github.com/wuxler/regprune/pkg/cmdhelper"
	"github.com/wuxler/regprune/pkg/distribution"
	"github.com/wuxler/regprune/pkg/util/xhttp"
)

const (
	// FlagCategoryRegistry is the category name for registry flags.
	FlagCategoryRegistry = "[Registry]"

	// DefaultPort is the port used when the host carries none.
	DefaultPort = 5000
)

// NewRegistry returns the options with default values.
func NewRegistry() *Registry {
	return &Registry{
		Port: DefaultPort,
	}
}

// Registry defines the registry client options.
type Registry struct {
	Host     string   `json:"host" yaml:"host"`
	Port     int64    `json:"port" yaml:"port"`
	Username string   `json:"username,omitempty" yaml:"username,omitempty"`
	Password string   `json:"-" yaml:"-"`
	Insecure bool     `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	CAFiles  []string `json:"ca_files,omitempty" yaml:"ca_files,omitempty"`
}

// Flags returns the cli flags related to current options.
func (o *Registry) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "host",
			Aliases:     []string{"H"},
			Usage:       "registry host, may carry a scheme and a port",
			Sources:     cli.EnvVars("REGPRUNE_HOST"),
			Required:    true,
			Value:       o.Host,
			Destination: &o.Host,
		},
		&cli.IntFlag{
			Name:        "port",
			Aliases:     []string{"p"},
			Usage:       "registry port, ignored when host has one",
			Sources:     cli.EnvVars("REGPRUNE_PORT"),
			Value:       o.Port,
			Destination: &o.Port,
		},
		&cli.StringFlag{
			Name:        "username",
			Aliases:     []string{"u"},
			Usage:       "basic auth username",
			Sources:     cli.EnvVars("REGPRUNE_USERNAME"),
			Value:       o.Username,
			Destination: &o.Username,
		},
		&cli.StringFlag{
			Name:        "password",
			Aliases:     []string{"P"},
			Usage:       "basic auth password",
			Sources:     cli.EnvVars("REGPRUNE_PASSWORD"),
			Value:       o.Password,
			Destination: &o.Password,
		},
		&cli.BoolFlag{
			Name:        "insecure",
			Usage:       "enable to skip verify registry SSL certificate",
			Sources:     cli.EnvVars("REGPRUNE_INSECURE"),
			Value:       o.Insecure,
			Destination: &o.Insecure,
		},
		&cli.StringSliceFlag{
			Name:        "ca-files",
			Usage:       "specify CA files to verify registry SSL certificate",
			Sources:     cli.EnvVars("REGPRUNE_CA_FILES"),
			Value:       o.CAFiles,
			Destination: &o.CAFiles,
			Validator: func(paths []string) error {
				var errs []error
				for _, path := range paths {
					if _, err := os.Stat(path); err != nil {
						errs = append(errs, err)
					}
				}
				return errors.Join(errs...)
			},
		},
	}
	cmdhelper.SetFlagsCategory(FlagCategoryRegistry, flags...)
	return flags
}

// Address returns the registry address with the default port applied.
func (o *Registry) Address() string {
	return xhttp.WithDefaultPort(o.Host, int(o.Port))
}

// NewTransport returns the HTTP transport with the TLS options applied.
func (o *Registry) NewTransport() (*http.Transport, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if !o.Insecure && len(o.CAFiles) == 0 {
		return tr, nil
	}
	tlsConfig := &tls.Config{
		InsecureSkipVerify: o.Insecure, //nolint:gosec // explicit skip verify
	}
	if len(o.CAFiles) > 0 {
		pool, err := cmdhelper.LoadTLSCertFiles(o.CAFiles...)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	}
	tr.TLSClientConfig = tlsConfig
	return tr, nil
}

// NewClient returns a registry client with flags configured. wrap decorates
// the transport, it may be nil.
func (o *Registry) NewClient(wrap func(http.RoundTripper) http.RoundTripper) (*distribution.Client, error) {
	tr, err := o.NewTransport()
	if err != nil {
		return nil, err
	}
	var rt http.RoundTripper = tr
	if wrap != nil {
		rt = wrap(rt)
	}
	client := distribution.NewClient()
	client.Client = &http.Client{Transport: rt}
	client.Credentials = authn.NewBasic(o.Username, o.Password)
	return client, nil
}

// Connect returns the registry handle, detecting the scheme when missing.
func (o *Registry) Connect(ctx context.Context, wrap func(http.RoundTripper) http.RoundTripper) (*distribution.Registry, error) {
	client, err := o.NewClient(wrap)
	if err != nil {
		return nil, err
	}
	return client.NewRegistry(ctx, o.Address())
}
