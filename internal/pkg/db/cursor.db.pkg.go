package database

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// cursorCrypto makes pagination cursors opaque to API clients. The key is
// derived from the database credentials so cursors do not survive a
// credential rotation.
type cursorCrypto struct {
	gcm cipher.AEAD
}

func newCursorCrypto(seed []byte) (*cursorCrypto, error) {
	key := sha256.Sum256(seed)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to build cursor cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to build cursor gcm: %w", err)
	}
	return &cursorCrypto{gcm: gcm}, nil
}

func (c *cursorCrypto) Encrypt(plain string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := c.gcm.Seal(nonce, nonce, []byte(plain), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *cursorCrypto) Decrypt(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(raw) < c.gcm.NonceSize() {
		return "", fmt.Errorf("cursor too short")
	}
	nonce, sealed := raw[:c.gcm.NonceSize()], raw[c.gcm.NonceSize():]
	plain, err := c.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// EncodeCursor and DecodeCursor expose opaque cursors to repositories.
func (db *Database) EncodeCursor(plain string) (string, error) {
	return db.cursorCrypto.Encrypt(plain)
}

func (db *Database) DecodeCursor(encoded string) (string, error) {
	return db.cursorCrypto.Decrypt(encoded)
}
