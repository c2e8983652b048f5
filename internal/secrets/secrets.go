package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the engine's secrets in the OS keychain.
	KeyringService = "nigaran-engine"

	AdminPassword = "admin-password"
	MailAPIKey    = "mail-api-key"
)

var ErrNotFound = errors.New("secret not found")

// Names lists the secrets the engine knows how to resolve.
var Names = []string{AdminPassword, MailAPIKey}

func known(name string) error {
	for _, n := range Names {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("unknown secret %q (want one of %s)", name, strings.Join(Names, ", "))
}

// EnvName is the environment variable consulted when the keyring has no
// entry, e.g. NIGARAN_ADMIN_PASSWORD.
func EnvName(name string) string {
	return "NIGARAN_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Get resolves a secret from the keyring first, then the environment.
func Get(name string) (string, error) {
	if err := known(name); err != nil {
		return "", err
	}
	if v, err := keyring.Get(KeyringService, name); err == nil && strings.TrimSpace(v) != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(EnvName(name))); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s: %w (set it in keychain or via %s)", name, ErrNotFound, EnvName(name))
}

// Lookup is Get with a fallback for callers that have a configured value.
func Lookup(name, fallback string) string {
	if v, err := Get(name); err == nil {
		return v
	}
	return fallback
}

func Set(name, value string) error {
	if err := known(name); err != nil {
		return err
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(KeyringService, name, value)
}

func Delete(name string) error {
	if err := known(name); err != nil {
		return err
	}
	err := keyring.Delete(KeyringService, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
