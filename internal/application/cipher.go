package application

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// DisplayCipher decrypts display-encrypted agent fields on the way out of a
// query. Encryption of the stored values belongs to the agent-management
// component; the projector only ever decrypts.
type DisplayCipher interface {
	Decrypt(value string) (string, error)
}

// NicknameCipher seals and opens agent nicknames with ChaCha20-Poly1305.
// Stored values are base64(nonce || ciphertext).
type NicknameCipher struct {
	key []byte
}

// NewNicknameCipher validates the key length for ChaCha20-Poly1305.
func NewNicknameCipher(key []byte) (*NicknameCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("nickname cipher key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	out := make([]byte, len(key))
	copy(out, key)
	return &NicknameCipher{key: out}, nil
}

// Encrypt seals the plaintext under a random nonce.
func (c *NicknameCipher) Encrypt(value string) (string, error) {
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(value), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a stored value. Empty input decrypts to the empty string so
// agents without a nickname need no sentinel row.
func (c *NicknameCipher) Decrypt(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.New("ciphertext shorter than nonce")
	}

	plain, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
