package utils

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// Passwords never travel in the clear: the desktop client encrypts them with
// a fixed AES-256-CBC key/IV before sending, and the server stores only a
// SHA-256 digest.  The embedded key is a known weakness of the protocol —
// every client ships the same key — but it cannot change without breaking
// compatibility with the deployed client, so it is reproduced here verbatim.
var (
	encryptionKey = []byte("12345678901234567890123456789012")
	encryptionIV  = []byte("1234567890123456")
)

var errInvalidPadding = errors.New("invalid pkcs7 padding")

// Encrypt applies the transit transform: AES-256-CBC with PKCS#7 padding
// over the UTF-8 bytes of plain, returned as standard base64.
func Encrypt(plain string) (string, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(plain), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, encryptionIV).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt.  It fails on malformed base64, ciphertext that
// is not a whole number of blocks, or bad padding.
func Decrypt(encrypted string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", errors.New("ciphertext is not block aligned")
	}
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", err
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, encryptionIV).CryptBlocks(out, raw)
	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// HashPassword returns the storage digest: base64(SHA-256(plain)).  This is
// the value persisted in users.password_hash and compared on login.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errInvalidPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errInvalidPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}
