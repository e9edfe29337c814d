package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fernet/fernet-go"
)

// the environment variable holding the fernet key(s) with which encrypted
// credential secrets are decrypted
const SecretKeyVariable = "CLIMIND_SECRET_KEY"

// the prefix marking a credential secret as a fernet token
const fernetPrefix = "fernet:"

// credentials (e.g. for a data provider's HTTP basic authentication)
type CredentialConfig struct {
	// user name
	Username string `yaml:"username" validate:"required"`
	// password or API key, either in plain text or as "fernet:<token>"
	Secret string `yaml:"secret"`
}

// returns true if the credential's secret is encrypted
func (c CredentialConfig) Encrypted() bool {
	return strings.HasPrefix(c.Secret, fernetPrefix)
}

// returns the credential's secret, decrypting it with the key(s) in the
// CLIMIND_SECRET_KEY environment variable if it is a fernet token
func (c CredentialConfig) PlainSecret() (string, error) {
	if !c.Encrypted() {
		return c.Secret, nil
	}
	encodedKeys := os.Getenv(SecretKeyVariable)
	if encodedKeys == "" {
		return "", fmt.Errorf("Can't decrypt credential secret: %s is not set", SecretKeyVariable)
	}
	keys, err := fernet.DecodeKeys(strings.Fields(encodedKeys)...)
	if err != nil {
		return "", fmt.Errorf("Invalid %s: %s", SecretKeyVariable, err.Error())
	}
	token := strings.TrimPrefix(c.Secret, fernetPrefix)
	secret := fernet.VerifyAndDecrypt([]byte(token), 0, keys)
	if secret == nil {
		return "", fmt.Errorf("Can't decrypt credential secret: invalid token or key")
	}
	return string(secret), nil
}

// checks that every encrypted credential can be decrypted
func validateCredentials(credentials map[string]CredentialConfig) error {
	for name, credential := range credentials {
		if _, err := credential.PlainSecret(); err != nil {
			return fmt.Errorf("Invalid credential '%s': %s", name, err.Error())
		}
	}
	return nil
}
