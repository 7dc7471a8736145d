package application

import (
	"testing"

	"golang.org/x/crypto/chacha20poly1305"
)

func testKey() []byte {
	key := make([]byte, chacha20poly1305.KeySize)
	for i := range key {
		key[i] = byte(i * 7)
	}
	return key
}

func TestNicknameCipherRoundTrip(t *testing.T) {
	t.Parallel()

	cipher, err := NewNicknameCipher(testKey())
	if err != nil {
		t.Fatalf("NewNicknameCipher failed: %v", err)
	}

	sealed, err := cipher.Encrypt("Águila")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if sealed == "Águila" {
		t.Fatal("ciphertext equals plaintext")
	}

	plain, err := cipher.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if plain != "Águila" {
		t.Fatalf("round trip produced %q", plain)
	}
}

func TestNicknameCipherEmptyValue(t *testing.T) {
	t.Parallel()

	cipher, err := NewNicknameCipher(testKey())
	if err != nil {
		t.Fatalf("NewNicknameCipher failed: %v", err)
	}

	plain, err := cipher.Decrypt("")
	if err != nil || plain != "" {
		t.Fatalf("empty value should decrypt to empty, got (%q, %v)", plain, err)
	}
}

func TestNicknameCipherRejectsBadInput(t *testing.T) {
	t.Parallel()

	cipher, err := NewNicknameCipher(testKey())
	if err != nil {
		t.Fatalf("NewNicknameCipher failed: %v", err)
	}

	for _, input := range []string{"!!! not base64", "dG9vc2hvcnQ=", "QQ=="} {
		if _, err := cipher.Decrypt(input); err == nil {
			t.Fatalf("expected %q to fail decryption", input)
		}
	}
}

func TestNicknameCipherRejectsWrongKeySize(t *testing.T) {
	t.Parallel()

	if _, err := NewNicknameCipher(make([]byte, 16)); err == nil {
		t.Fatal("expected 16 byte key to be rejected")
	}
	if _, err := NewNicknameCipher(nil); err == nil {
		t.Fatal("expected nil key to be rejected")
	}
}
