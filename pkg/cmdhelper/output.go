package cmdhelper

import (
	"fmt"
	"io"
)

// Fprintf is a wrapper around fmt.Fprintf to suppress the error check. A
// trailing newline is added when missing.
func Fprintf(w io.Writer, format string, args ...any) {
	if format == "" || format[len(format)-1] != '\n' {
		format += "\n"
	}
	_, _ = fmt.Fprintf(w, format, args...)
}
