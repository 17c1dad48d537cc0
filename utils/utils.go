package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/utils/logger"
	"github.com/goccy/go-json"
	"github.com/oklog/ulid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	ulidMutex = sync.Mutex{}
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// IsValidSubcommand checks if the passed subcommand is supported by the parent command
func IsValidSubcommand(available []*cobra.Command, sub string) bool {
	for _, s := range available {
		if sub == s.Use || sub == s.CalledAs() {
			return true
		}
	}
	return false
}

func ExistInArray[T ~string | int | int8 | int16 | int32 | int64 | float32 | float64](set []T, value T) bool {
	_, found := ArrayContains(set, func(elem T) bool {
		return elem == value
	})

	return found
}

func ArrayContains[T any](set []T, match func(elem T) bool) (int, bool) {
	for idx, elem := range set {
		if match(elem) {
			return idx, true
		}
	}

	return -1, false
}

// returns cond ? a ; b (note: it is not function ternary)
func Ternary(cond bool, a, b any) any {
	if cond {
		return a
	}
	return b
}

func ForEach[T any](set []T, action func(elem T) error) error {
	for _, elem := range set {
		err := action(elem)
		if err != nil {
			return err
		}
	}
	return nil
}

func CheckIfFilesExists(files ...string) error {
	for _, file := range files {
		// Check if the file or directory exists
		_, err := os.Stat(file)
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist: %s", file, err)
		}

		_, err = os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %s", file, err)
		}
	}

	return nil
}

// ReadConfigFile returns the content of a config file. Credential files are decrypted first when an
// encryption key is configured.
func ReadConfigFile(file string, credsFile bool) ([]byte, error) {
	if err := CheckIfFilesExists(file); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("file not found : %s", err)
	}
	if credsFile && viper.GetString(constants.EncryptionKey) != "" {
		dConfig, err := Decrypt(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt config file[%s]: %s", file, err)
		}
		return []byte(dConfig), nil
	}
	return data, nil
}

// UnmarshalFile reads a JSON file into dest
func UnmarshalFile(file string, dest any, credsFile bool) error {
	data, err := ReadConfigFile(file, credsFile)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal file[%s]: %s", file, err)
	}
	return nil
}

func ULID() string {
	return genULID(time.Now())
}

func genULID(t time.Time) string {
	ulidMutex.Lock()
	defer ulidMutex.Unlock()
	newUlid, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		logger.Fatalf("failed to generate ulid: %s", err)
	}
	return newUlid.String()
}

// ComputeConfigHash fingerprints the config file so runs against the same target can be correlated in logs
func ComputeConfigHash(paths ...string) string {
	hash := sha256.New()
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		hash.Write(data)
	}
	return hex.EncodeToString(hash.Sum(nil))
}
