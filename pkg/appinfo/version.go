// Package appinfo holds the build information of regprune.
package appinfo

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wuxler/regprune/pkg/errdefs"
)

// Set at build time, for example:
//
//	go build -ldflags '-X github.com/wuxler/regprune/pkg/appinfo.version=v1.0.0'
var (
	version   = "dev"
	buildDate = "1970-01-01T00:00:00Z"
	gitCommit = ""
	// gitTreeState is either "clean" or "dirty".
	gitTreeState = ""
)

// Version is the build information of the binary.
type Version struct {
	Version      string `json:"version" yaml:"version"`
	GitCommit    string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	GitTreeState string `json:"git_tree_state,omitempty" yaml:"git_tree_state,omitempty"`
	BuildDate    string `json:"build_date" yaml:"build_date"`
	GoVersion    string `json:"go_version" yaml:"go_version"`
	Platform     string `json:"platform" yaml:"platform"`
}

// GetVersion returns the Version of the running binary.
func GetVersion() Version {
	return Version{
		Version:      version,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns the version with the abbreviated commit, if known.
func (v Version) Short() string {
	if len(v.GitCommit) > 7 {
		return v.Version + "-" + v.GitCommit[:8]
	}
	return v.Version
}

// Write writes v to w in format, one of "text", "json" or "yaml". appName
// prefixes the text output when set.
func (v Version) Write(w io.Writer, format string, appName string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.NewEncoder(w).Encode(v)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "", "text":
		_, err := io.WriteString(w, v.text(appName))
		return err
	default:
		return errdefs.Newf(errdefs.ErrInvalidParameter, "unsupported version format %q", format)
	}
}

func (v Version) text(appName string) string {
	var sb strings.Builder
	if appName != "" {
		fmt.Fprintf(&sb, "Application : %s\n", appName)
	}
	fmt.Fprintf(&sb, "Version     : %s\n", v.Version)
	fmt.Fprintf(&sb, "GitCommit   : %s\n", v.GitCommit)
	fmt.Fprintf(&sb, "TreeState   : %s\n", v.GitTreeState)
	fmt.Fprintf(&sb, "BuildDate   : %s\n", v.BuildDate)
	fmt.Fprintf(&sb, "GoVersion   : %s\n", v.GoVersion)
	fmt.Fprintf(&sb, "Platform    : %s\n", v.Platform)
	return sb.String()
}
