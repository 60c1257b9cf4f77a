package cmdhelper

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// LoadTLSCertFiles creates and loads all cert files with the paths specified.
func LoadTLSCertFiles(paths ...string) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	for _, path := range paths {
		pemCerts, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if ok := pool.AppendCertsFromPEM(pemCerts); !ok {
			return nil, fmt.Errorf("unable to append certs from pem file %s", path)
		}
	}
	return pool, nil
}

// Confirm asks a yes/no question on the terminal, defaulting to no.
// An interrupted or aborted prompt counts as no.
func Confirm(label string) (bool, error) {
	prompt := &promptui.Prompt{
		Label:     label,
		Default:   "N",
		IsConfirm: true,
	}
	userInput, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(userInput, "y"), nil
}
