package encryption

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	key, err := RandomKey()
	if err != nil {
		t.Fatalf("RandomKey: %v", err)
	}
	s, err := NewSealer(key)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	return s
}

func TestSealOpen(t *testing.T) {
	s := newTestSealer(t)

	sealed, err := s.Seal("oauth-token-secret", "default/token_secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !strings.HasPrefix(sealed, "v1.") {
		t.Errorf("sealed = %q, want v1. prefix", sealed)
	}
	if strings.Contains(sealed, "oauth-token-secret") {
		t.Fatal("sealed value contains plaintext")
	}

	got, err := s.Open(sealed, "default/token_secret")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got != "oauth-token-secret" {
		t.Errorf("plaintext = %q", got)
	}
}

func TestSeal_EmptyPlaintext(t *testing.T) {
	s := newTestSealer(t)
	sealed, err := s.Seal("", "x")
	if err != nil {
		t.Fatal(err)
	}
	if got, err := s.Open(sealed, "x"); err != nil || got != "" {
		t.Errorf("Open = %q, %v", got, err)
	}
}

func TestSeal_NonceVaries(t *testing.T) {
	s := newTestSealer(t)
	a, _ := s.Seal("same", "l")
	b, _ := s.Seal("same", "l")
	if a == b {
		t.Error("two seals of the same plaintext should differ")
	}
}

func TestOpen_WrongLabel(t *testing.T) {
	s := newTestSealer(t)
	sealed, err := s.Seal("tok", "work/token")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Open(sealed, "work/token_secret"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}
}

func TestOpen_WrongKey(t *testing.T) {
	a := newTestSealer(t)
	b := newTestSealer(t)
	sealed, err := a.Seal("secret", "l")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Open(sealed, "l"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}
}

func TestOpen_Malformed(t *testing.T) {
	s := newTestSealer(t)
	for name, in := range map[string]string{
		"no prefix":   "c2VjcmV0",
		"not base64":  "v1.%%%",
		"too short":   "v1.AAAA",
		"empty value": "",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Open(in, "l"); !errors.Is(err, ErrFormat) {
				t.Errorf("err = %v, want ErrFormat", err)
			}
		})
	}
}

func TestPassphraseSealer(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	if len(salt) != SaltSize {
		t.Fatalf("salt length = %d", len(salt))
	}

	s, err := NewPassphraseSealer("correct horse", salt)
	if err != nil {
		t.Fatalf("NewPassphraseSealer: %v", err)
	}
	sealed, err := s.Seal("value", "check")
	if err != nil {
		t.Fatal(err)
	}

	same, _ := NewPassphraseSealer("correct horse", salt)
	if got, err := same.Open(sealed, "check"); err != nil || got != "value" {
		t.Errorf("Open = %q, %v", got, err)
	}

	wrong, _ := NewPassphraseSealer("battery staple", salt)
	if _, err := wrong.Open(sealed, "check"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("wrong passphrase err = %v", err)
	}
}

func TestDeriveKey(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, SaltSize)
	a, err := DeriveKey("pw", salt)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := DeriveKey("pw", salt)
	if a != b {
		t.Error("same inputs produced different keys")
	}
	if c, _ := DeriveKey("pw2", salt); a == c {
		t.Error("different passphrases produced the same key")
	}

	if _, err := DeriveKey("", salt); err == nil {
		t.Error("expected error for empty passphrase")
	}
	if _, err := DeriveKey("pw", []byte("short")); err == nil {
		t.Error("expected error for short salt")
	}
}
