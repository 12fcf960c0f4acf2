package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	saltHeader = "Salted__"
	saltSize   = 8
	keySize    = 32
)

// ErrEncryptionFailed is returned for any failure while encrypting a credential
var ErrEncryptionFailed = errors.New("failed to encrypt API key")

// Encrypter turns a plaintext credential into the ciphertext expected by the
// validation service. The passphrase is shared with that service and is
// shipped with the client, so the result is an obfuscation handshake rather
// than a confidentiality guarantee.
type Encrypter struct {
	passphrase string
	rand       io.Reader
}

// NewEncrypter creates an Encrypter using the given shared passphrase
func NewEncrypter(passphrase string) *Encrypter {
	return &Encrypter{
		passphrase: passphrase,
		rand:       rand.Reader,
	}
}

// Encrypt returns base64("Salted__" | salt | AES-256-CBC(plaintext)), the
// OpenSSL passphrase format that CryptoJS produces for AES.encrypt.
func (e *Encrypter) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(e.rand, salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	key, iv := bytesToKey([]byte(e.passphrase), salt, keySize, aes.BlockSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	out := make([]byte, 0, len(saltHeader)+saltSize+len(ct))
	out = append(out, saltHeader...)
	out = append(out, salt...)
	out = append(out, ct...)

	return base64.StdEncoding.EncodeToString(out), nil
}

// EncryptAPIKey encrypts plaintext with passphrase using a fresh salt
func EncryptAPIKey(plaintext, passphrase string) (string, error) {
	return NewEncrypter(passphrase).Encrypt(plaintext)
}

// bytesToKey is OpenSSL's EVP_BytesToKey with MD5 and a single iteration
func bytesToKey(passphrase, salt []byte, keyLen, ivLen int) ([]byte, []byte) {
	var derived, prev []byte
	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}
