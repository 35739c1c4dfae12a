package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// AddressPrefix is the scheme prefix of content addresses produced by
// AddressFor.
const AddressPrefix = "sha256:"

// HashBytes returns the hex-encoded sha256 digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the hex-encoded sha256 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// AddressFor derives the content address of data.
func AddressFor(data []byte) string {
	return AddressPrefix + HashBytes(data)
}

// AddressForFile derives the content address of the file at path.
func AddressForFile(path string) (string, error) {
	sum, err := HashFile(path)
	if err != nil {
		return "", err
	}
	return AddressPrefix + sum, nil
}

// AddressMatches reports whether a claimed content address corresponds to
// the given hex digest. The digest may be the whole address or embedded in
// it (e.g. behind a scheme prefix).
func AddressMatches(address, digest string) bool {
	if address == "" || digest == "" {
		return false
	}
	return address == digest || strings.Contains(address, digest)
}
