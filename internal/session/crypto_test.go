package session

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	sealer := NewSealer("console-secret")

	sealed, err := sealer.Seal("backend-jwt-token")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == "backend-jwt-token" {
		t.Fatal("sealed value must not equal the plaintext")
	}

	plain, err := sealer.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if plain != "backend-jwt-token" {
		t.Fatalf("plain = %q", plain)
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	sealer := NewSealer("console-secret")
	a, _ := sealer.Seal("token")
	b, _ := sealer.Seal("token")
	if a == b {
		t.Fatal("two seals of the same plaintext must differ")
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	sealer := NewSealer("console-secret")
	sealed, _ := sealer.Seal("backend-jwt-token")

	raw, _ := base64.StdEncoding.DecodeString(sealed)
	raw[len(raw)-1] ^= 0xFF
	tampered := base64.StdEncoding.EncodeToString(raw)

	if _, err := sealer.Open(tampered); !errors.Is(err, ErrSealedTokenInvalid) {
		t.Fatalf("err = %v, want ErrSealedTokenInvalid", err)
	}
}

func TestOpenRejectsWrongKey(t *testing.T) {
	sealed, _ := NewSealer("key-a").Seal("token")
	if _, err := NewSealer("key-b").Open(sealed); !errors.Is(err, ErrSealedTokenInvalid) {
		t.Fatalf("err = %v, want ErrSealedTokenInvalid", err)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	sealer := NewSealer("console-secret")
	for _, input := range []string{"", "not-base64!!", base64.StdEncoding.EncodeToString([]byte("short"))} {
		if _, err := sealer.Open(input); !errors.Is(err, ErrSealedTokenInvalid) {
			t.Fatalf("Open(%q) err = %v, want ErrSealedTokenInvalid", input, err)
		}
	}
}
