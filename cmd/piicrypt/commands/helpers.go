// Package commands contains CLI command implementations for piicrypt.
package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ai8future/piicrypt"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// readValue returns arg, or the first line of r when arg is empty or "-".
// Reading from stdin keeps PII out of shell history.
func readValue(r io.Reader, arg string) (string, error) {
	if arg != "" && arg != "-" {
		return arg, nil
	}
	if r == nil {
		return "", fmt.Errorf("no value given and no input to read from")
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read value: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("no value given")
	}
	return line, nil
}

// parseNormalizer converts a normalizer name to a piicrypt.Normalizer.
// Returns an error if the name is invalid.
func parseNormalizer(name string) (piicrypt.Normalizer, error) {
	switch name {
	case "", "none":
		return piicrypt.NormalizeNone, nil
	case "trim":
		return piicrypt.NormalizeTrim, nil
	case "email":
		return piicrypt.NormalizeEmail, nil
	case "phone":
		return piicrypt.NormalizePhone, nil
	default:
		return nil, fmt.Errorf(
			"invalid normalizer: %s (valid options: none, trim, email, phone)",
			name,
		)
	}
}

// parseEmailContexts returns the contexts for entity:field, or the defaults
// when both are empty.
func parseEmailContexts(entity, field string) (piicrypt.EmailContexts, error) {
	if entity == "" && field == "" {
		return piicrypt.DefaultEmailContexts, nil
	}
	if entity == "" || field == "" {
		return piicrypt.EmailContexts{}, fmt.Errorf("--entity and --field must be given together")
	}
	return piicrypt.EmailContextsFor(entity, field), nil
}
