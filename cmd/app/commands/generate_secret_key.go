package commands

import (
	"fmt"
	"io"

	"github.com/allisson/credstore/internal/crypto"
)

// secretKeyLength is the number of characters in a generated secret key.
const secretKeyLength = 50

// RunGenerateSecretKey generates a random secret key suitable for the
// SECRET_KEY environment variable and writes it to the given writer.
func RunGenerateSecretKey(writer io.Writer) error {
	key, err := crypto.RandomSecretKey(secretKeyLength)
	if err != nil {
		return fmt.Errorf("failed to generate secret key: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "SECRET_KEY=\"%s\"\n", key)

	return nil
}
