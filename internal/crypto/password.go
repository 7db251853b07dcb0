// Package crypto encrypts and decrypts the stored credentials the suite reads
// from its environment. Ciphertexts are AES-128-CBC with PKCS#7 padding,
// base64 encoded, which is the format CryptoJS produces for a raw key and IV,
// so values encrypted by either side decrypt on the other.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/xkilldash9x/scalpel-e2e/internal/config"
)

// DefaultKey is used as both key and IV when none is configured.
const DefaultKey = "7061737323313233"

var (
	// ErrInvalidPadding is returned when decrypted data does not end in valid PKCS#7 padding,
	// which almost always means the wrong key or IV.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidCiphertext is returned for input that is not base64 or not a whole number of blocks.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// PasswordHandler encrypts and decrypts passwords with a fixed key and IV.
type PasswordHandler struct {
	block cipher.Block
	iv    []byte
}

// NewPasswordHandler builds a handler from the configured key material. The
// key and IV are used as raw UTF-8 bytes and must be 16 bytes each.
func NewPasswordHandler(cfg config.CryptoConfig) (*PasswordHandler, error) {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.IV == "" {
		cfg.IV = DefaultKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher([]byte(cfg.Key))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &PasswordHandler{block: block, iv: []byte(cfg.IV)}, nil
}

// Encrypt returns the base64 ciphertext of plain.
func (h *PasswordHandler) Encrypt(plain string) string {
	data := pad([]byte(plain), aes.BlockSize)
	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(h.block, h.iv).CryptBlocks(out, data)
	return base64.StdEncoding.EncodeToString(out)
}

// Decrypt reverses Encrypt.
func (h *PasswordHandler) Decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: length %d is not a multiple of the block size", ErrInvalidCiphertext, len(data))
	}
	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(h.block, h.iv).CryptBlocks(out, data)
	plain, err := unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, size int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > size || n > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
