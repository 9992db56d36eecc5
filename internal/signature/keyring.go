package signature

import (
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// LoadKeyring reads a GPG public keyring used to verify package
// signatures. Armored keyrings are tried first, then binary.
func LoadKeyring(path string) (openpgp.EntityList, error) {
	if path == "" {
		return nil, fmt.Errorf("keyring path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try as binary keyring
		if _, serr := f.Seek(0, 0); serr != nil {
			return nil, serr
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read keyring: %w", err)
		}
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("no keys found in keyring")
	}
	return entities, nil
}
