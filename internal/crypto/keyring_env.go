package crypto

import (
	"errors"
	"os"
)

// envKeyring reads the key from BILLBOOK_DB_KEY and otherwise defers to
// next, which may be nil when no credential store is reachable
type envKeyring struct {
	next Keyring
}

func (k *envKeyring) GetKey() (string, error) {
	if key := os.Getenv(EnvKey); key != "" {
		return key, nil
	}
	if k.next != nil {
		return k.next.GetKey()
	}
	return "", errors.New(EnvKey + " environment variable not set")
}

func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if k.next != nil {
		return k.next.SetKey(password)
	}
	return errors.New("no keyring available on this machine: set the " + EnvKey + " environment variable instead")
}

func (k *envKeyring) DeleteKey() error {
	if k.next != nil {
		return k.next.DeleteKey()
	}
	return errors.New("no keyring available on this machine: unset " + EnvKey + " manually")
}

func (k *envKeyring) IsAvailable() bool {
	if os.Getenv(EnvKey) != "" {
		return true
	}
	return k.next != nil && k.next.IsAvailable()
}
