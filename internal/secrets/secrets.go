// Package secrets resolves API keys, signing secrets and connection strings
// from files, inline configuration or the environment.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret may come from. File wins over Value, and
// Value wins over Env.
type Source struct {
	// Name appears in error messages.
	Name  string
	Value string
	File  string
	// Env names an environment variable consulted when neither File nor
	// Value is set.
	Env string
}

// Load returns the trimmed secret or an error naming the missing source.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
		return "", fmt.Errorf("%s is not configured (set %s)", name, env)
	}

	return "", fmt.Errorf("%s is not configured", name)
}

// Optional is Load for secrets whose absence disables a feature. It reports
// false instead of an error when nothing is configured; a configured but
// unreadable file is still an error.
func Optional(src Source) (string, bool, error) {
	secret, err := Load(src)
	if err != nil {
		if strings.TrimSpace(src.File) != "" {
			return "", false, err
		}
		return "", false, nil
	}
	return secret, true, nil
}
