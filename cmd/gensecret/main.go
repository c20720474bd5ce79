package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const SecretKeyBytesLen = 32

// Prints a fresh pair of random signing keys, ready to paste into the
// environment or the '.env' file
func main() {
	if err := writeSecrets(os.Stdout); err != nil {
		fmt.Printf("error while generating secret keys: %v", err)
		os.Exit(1)
	}
}

func writeSecrets(w io.Writer) error {
	for _, name := range []string{"ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET"} {
		b := make([]byte, SecretKeyBytesLen)

		if _, err := rand.Read(b); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", name, hex.EncodeToString(b)); err != nil {
			return err
		}
	}

	return nil
}
