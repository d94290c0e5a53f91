package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/Sudarshan-cuk/advanced-image-steganography/config"
)

// getSecret returns the key from the --secret flag, then the configuration
// (STEGANO_SECRET), then an interactive prompt.
func getSecret(flagValue, configValue string) (string, error) {
	if secret := firstNonEmpty(flagValue, configValue); secret != "" {
		return secret, nil
	}
	return promptSecret(false)
}

// getSecretWithConfirm is getSecret with the prompt asked twice.
func getSecretWithConfirm(flagValue, configValue string) (string, error) {
	if secret := firstNonEmpty(flagValue, configValue); secret != "" {
		return secret, nil
	}
	return promptSecret(true)
}

func promptSecret(confirm bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.Errorf("no key given: use --secret or set %s_SECRET", config.EnvPrefix)
	}

	secret, err := readSecret(fd, "Enter key: ")
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", errors.New("key cannot be empty")
	}
	if confirm {
		again, err := readSecret(fd, "Confirm key: ")
		if err != nil {
			return "", err
		}
		if again != secret {
			return "", errors.New("keys do not match")
		}
	}
	return secret, nil
}

func readSecret(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "unable to read key")
	}
	return string(secret), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
