package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for key wrapping. Interactive-grade cost; wraps happen
// on the admin path, unwraps on the signing path.
const (
	scryptN       = 1 << 15
	scryptR       = 8
	scryptP       = 1
	scryptSaltLen = 16
	scryptKeyLen  = 32
)

// ScryptKeystore implements ports.Keystore. Each ciphertext carries its own
// scrypt salt, so the passphrase can be rotated by re-wrapping.
type ScryptKeystore struct {
	passphrase []byte
}

// NewScryptKeystore creates a keystore from the wrapping passphrase.
func NewScryptKeystore(passphrase string) (*ScryptKeystore, error) {
	if len(passphrase) < 16 {
		return nil, fmt.Errorf("keystore passphrase must be at least 16 characters")
	}
	return &ScryptKeystore{passphrase: []byte(passphrase)}, nil
}

// Encrypt wraps plaintext with AES-256-GCM under a scrypt-derived key.
// Returns hex-encoded salt + nonce + ciphertext.
func (k *ScryptKeystore) Encrypt(plaintext []byte) (string, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	aesGCM, err := k.cipherFor(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := aesGCM.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(append(salt, sealed...)), nil
}

// Decrypt unwraps a ciphertext produced by Encrypt.
func (k *ScryptKeystore) Decrypt(ciphertextHex string) ([]byte, error) {
	raw, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, fmt.Errorf("decoding ciphertext: %w", err)
	}
	if len(raw) < scryptSaltLen {
		return nil, fmt.Errorf("ciphertext too short")
	}
	salt, sealed := raw[:scryptSaltLen], raw[scryptSaltLen:]

	aesGCM, err := k.cipherFor(salt)
	if err != nil {
		return nil, err
	}

	nonceSize := aesGCM.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, sealed := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	return plaintext, nil
}

// EncryptString wraps a string secret.
func (k *ScryptKeystore) EncryptString(plaintext string) (string, error) {
	return k.Encrypt([]byte(plaintext))
}

// DecryptString unwraps a string secret.
func (k *ScryptKeystore) DecryptString(ciphertextHex string) (string, error) {
	plaintext, err := k.Decrypt(ciphertextHex)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (k *ScryptKeystore) cipherFor(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(k.passphrase, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Zeroize overwrites a raw key buffer after use.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
