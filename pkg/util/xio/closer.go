package xio

import (
	"io"
	"strings"

	"github.com/wuxler/regprune/pkg/xlog"
)

// CloseAndSkipError is used to close the io.Closer and ignore the error returned.
func CloseAndSkipError(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

// CloseAndLogError closes c and logs a warning when Close fails.
// Use "defer CloseAndLogError(rc)" instead of "defer rc.Close()".
func CloseAndLogError(c io.Closer, messages ...string) {
	if c == nil {
		return
	}
	err := c.Close()
	if err == nil {
		return
	}
	if len(messages) == 0 {
		xlog.Warnf("unable to close: %+v", err)
		return
	}
	xlog.Warnf("unable to close: %s: %+v", strings.Join(messages, ": "), err)
}
