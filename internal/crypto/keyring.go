package crypto

// Keyring provides secure storage for the database encryption key
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "billbook"
	KeyName     = "store-encryption-key"

	// EnvKey overrides any stored key, for headless machines and scripts
	EnvKey = "BILLBOOK_DB_KEY"
)

// NewKeyring returns the best available keyring implementation
func NewKeyring() Keyring {
	return newPlatformKeyring()
}
