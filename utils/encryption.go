package utils

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/datazip-inc/sparkify/constants"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	kmsKeyPrefix = "arn:aws:kms:"

	saltSize  = 16
	nonceSize = 24
)

func isKMSKey(key string) bool {
	return strings.HasPrefix(key, kmsKeyPrefix)
}

// Encrypt encrypts plaintext with the configured key and returns base64 ciphertext.
// KMS key ARNs are handed to AWS KMS. Any other value is a passphrase: the key is derived with
// scrypt and the payload sealed with secretbox as salt|nonce|box.
func Encrypt(plaintext string) (string, error) {
	key := strings.TrimSpace(viper.GetString(constants.EncryptionKey))
	if key == "" {
		return plaintext, nil
	}

	if isKMSKey(key) {
		client, err := kmsClient(context.Background())
		if err != nil {
			return "", err
		}
		out, err := client.Encrypt(context.Background(), &kms.EncryptInput{
			KeyId:     aws.String(key),
			Plaintext: []byte(plaintext),
		})
		if err != nil {
			return "", fmt.Errorf("failed to encrypt with kms: %s", err)
		}
		return base64.StdEncoding.EncodeToString(out.CiphertextBlob), nil
	}

	header := make([]byte, saltSize+nonceSize)
	if _, err := io.ReadFull(rand.Reader, header); err != nil {
		return "", fmt.Errorf("failed to generate salt: %s", err)
	}
	secret, err := deriveKey(key, header[:saltSize])
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], header[saltSize:])
	sealed := secretbox.Seal(header, []byte(plaintext), &nonce, secret)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// EncryptFile encrypts the contents of a config file with the configured key.
func EncryptFile(path string) (string, error) {
	if strings.TrimSpace(viper.GetString(constants.EncryptionKey)) == "" {
		return "", fmt.Errorf("an encryption key is required to encrypt %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %s", path, err)
	}
	return Encrypt(string(data))
}

// Decrypt reverses Encrypt. The encrypted config file may hold the ciphertext as a bare string or
// as a JSON string literal.
func Decrypt(encrypted string) (string, error) {
	key := strings.TrimSpace(viper.GetString(constants.EncryptionKey))
	if key == "" {
		return encrypted, nil
	}

	encrypted = strings.TrimSpace(encrypted)
	var quoted string
	if err := json.Unmarshal([]byte(encrypted), &quoted); err == nil {
		encrypted = quoted
	}

	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 config: %s", err)
	}

	if isKMSKey(key) {
		client, err := kmsClient(context.Background())
		if err != nil {
			return "", err
		}
		out, err := client.Decrypt(context.Background(), &kms.DecryptInput{
			KeyId:          aws.String(key),
			CiphertextBlob: data,
		})
		if err != nil {
			return "", fmt.Errorf("failed to decrypt with kms: %s", err)
		}
		return string(out.Plaintext), nil
	}

	if len(data) < saltSize+nonceSize+secretbox.Overhead {
		return "", fmt.Errorf("ciphertext too short")
	}
	secret, err := deriveKey(key, data[:saltSize])
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], data[saltSize:saltSize+nonceSize])
	plaintext, ok := secretbox.Open(nil, data[saltSize+nonceSize:], &nonce, secret)
	if !ok {
		return "", fmt.Errorf("failed to decrypt config: wrong key or corrupted payload")
	}
	return string(plaintext), nil
}

func deriveKey(passphrase string, salt []byte) (*[32]byte, error) {
	derived, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %s", err)
	}
	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}

func kmsClient(ctx context.Context) (*kms.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %s", err)
	}
	return kms.NewFromConfig(cfg), nil
}
