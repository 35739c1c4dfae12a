package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAddressForFile_MatchesBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.txt")
	data := []byte("deterministic content")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fromFile, err := AddressForFile(path)
	if err != nil {
		t.Fatalf("AddressForFile failed: %v", err)
	}
	if fromFile != AddressFor(data) {
		t.Fatalf("file and byte addressing disagree: %s vs %s", fromFile, AddressFor(data))
	}
	if !strings.HasPrefix(fromFile, AddressPrefix) {
		t.Fatalf("expected %q prefix, got %s", AddressPrefix, fromFile)
	}

	digest, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if !AddressMatches(fromFile, digest) {
		t.Fatal("expected address to match its own digest")
	}
	if AddressMatches(fromFile, HashBytes([]byte("other content"))) {
		t.Fatal("expected address not to match a different digest")
	}
}

func TestAddressMatches_EmbeddedDigest(t *testing.T) {
	digest := HashBytes([]byte("x"))

	if !AddressMatches(digest, digest) {
		t.Fatal("bare digest must match itself")
	}
	if !AddressMatches("sha256:"+digest, digest) {
		t.Fatal("prefixed address must match embedded digest")
	}
	if AddressMatches("", digest) || AddressMatches(digest, "") {
		t.Fatal("empty address or digest must never match")
	}
}
