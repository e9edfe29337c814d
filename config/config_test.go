package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/stretchr/testify/assert"
)

// a valid service config entry
const VALID_SERVICE string = `
service:
  port: 8080
  max_connections: 100
  data_dir: ${CLIMIND_TEST_DATA_DIR}
  metadata_dir: metadata
  log_level: debug
`

// a valid credentials config entry
const VALID_CREDENTIALS string = `
credentials:
  cds:
    username: climind
    secret: ${CLIMIND_TEST_CDS_SECRET}
`

// a valid fetchers config entry
const VALID_FETCHERS string = `
fetchers:
  fetcher_cds:
    kind: url
    credential: cds
    timeout: 60
    retries: 3
    backoff: 250
  archive_copy:
    kind: local
    root: /srv/mirror
`

// tests whether config.Init reports an error for blank input
func TestInitRejectsBlankInput(t *testing.T) {
	b := []byte("")
	err := Init(b)
	assert.NotNil(t, err, "Blank config didn't trigger an error.")
}

// tests whether config.Init reports an error for an invalid port
func TestInitRejectsBadPort(t *testing.T) {
	yaml := "service:\n  port: -1\n\n" + VALID_FETCHERS + VALID_CREDENTIALS
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad port didn't trigger an error.")
	yaml = "service:\n  port: 1000000\n\n" + VALID_FETCHERS + VALID_CREDENTIALS
	err = Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad port didn't trigger an error.")
	assert.ErrorContains(t, err, "'Port' failed on the 'lte' tag")
}

// tests whether config.Init reports an error for an invalid max number of
// connections
func TestInitRejectsBadMaxConnections(t *testing.T) {
	yaml := "service:\n  max_connections: 0\n\n" + VALID_FETCHERS + VALID_CREDENTIALS
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad max_connections didn't trigger an error.")
}

// tests whether config.Init rejects a bad log level
func TestInitRejectsBadLogLevel(t *testing.T) {
	yaml := "service:\n  log_level: chatty\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad log level didn't trigger an error.")
}

// tests whether config.Init rejects a climatology that ends before it starts
func TestInitRejectsBackwardClimatology(t *testing.T) {
	yaml := VALID_SERVICE + "climatology:\n  start: 1991\n  end: 1961\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with backward climatology didn't trigger an error.")
	assert.ErrorContains(t, err, "'End' failed on the 'gtfield' tag")
}

// tests whether config.Init rejects fetchers with bad kinds or credentials
func TestInitRejectsBadFetchers(t *testing.T) {
	for _, fetchers := range []string{
		"fetchers:\n  ftp_thing:\n    kind: ftp\n",
		"fetchers:\n  fetcher_cds:\n    kind: url\n    credential: nobody\n",
		"fetchers:\n  copier:\n    kind: local\n    credential: cds\n",
		"fetchers:\n  fetcher_cds:\n    kind: url\n    retries: -2\n",
	} {
		yaml := VALID_SERVICE + VALID_CREDENTIALS + fetchers
		err := Init([]byte(yaml))
		assert.NotNil(t, err, fmt.Sprintf("Config with bad fetchers didn't trigger an error:\n%s", fetchers))
	}
}

// tests whether config.Init rejects a bad refresh interval
func TestInitRejectsBadRefreshInterval(t *testing.T) {
	for _, interval := range []string{"daily", "10s"} {
		yaml := VALID_SERVICE + fmt.Sprintf("refresh:\n  interval: %s\n", interval)
		err := Init([]byte(yaml))
		assert.NotNil(t, err, "Config with bad refresh interval %s didn't trigger an error.", interval)
	}
}

// Tests whether config.Init returns no error for a configuration that is
// (ostensibly) valid.
func TestInitAcceptsValidInput(t *testing.T) {
	yaml := VALID_SERVICE + VALID_CREDENTIALS + VALID_FETCHERS
	err := Init([]byte(yaml))
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))
}

// Tests whether config.Init properly initializes its globals for valid input.
func TestInitProperlySetsGlobals(t *testing.T) {
	assert := assert.New(t)
	yaml := VALID_SERVICE + VALID_CREDENTIALS + VALID_FETCHERS +
		"refresh:\n  interval: 24h\n  criteria:\n    variable: [tas, sst]\n"
	err := Init([]byte(yaml))
	assert.Nil(err, fmt.Sprintf("Valid YAML input produced an error: %s", err))

	assert.Equal(8080, Service.Port)
	assert.Equal(100, Service.MaxConnections)
	assert.Equal(os.Getenv("CLIMIND_TEST_DATA_DIR"), Service.DataDirectory)
	assert.Equal("debug", Service.LogLevel)
	assert.Equal(1981, Climatology.Start)
	assert.Equal(2010, Climatology.End)
	assert.Equal(2, len(Fetchers))
	assert.Equal(60*time.Second, Fetchers["fetcher_cds"].TimeoutDuration())
	assert.Equal(250*time.Millisecond, Fetchers["fetcher_cds"].BackoffDuration())
	assert.Equal(300*time.Second, Fetchers["archive_copy"].TimeoutDuration())
	period, err := Refresh.Period()
	assert.Nil(err)
	assert.Equal(24*time.Hour, period)
	assert.Equal([]any{"tas", "sst"}, Refresh.Criteria["variable"])

	secret, err := Credentials["cds"].PlainSecret()
	assert.Nil(err)
	assert.Equal("not-a-real-api-key", secret)
}

// tests whether config.Init rejects secrets that can't be decrypted
func TestInitRejectsUndecryptableSecret(t *testing.T) {
	yaml := VALID_SERVICE +
		"credentials:\n  cds:\n    username: climind\n    secret: fernet:garbage\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with undecryptable secret didn't trigger an error.")
}

// tests loading of .env files
func TestLoadEnvFile(t *testing.T) {
	dir, err := os.MkdirTemp(os.TempDir(), "climind-config-tests-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	envFile := filepath.Join(dir, ".env")
	os.WriteFile(envFile, []byte("CLIMIND_TEST_FROM_ENV_FILE=hello\n"), 0644)
	assert.Nil(t, LoadEnvFile(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "hello", os.Getenv("CLIMIND_TEST_FROM_ENV_FILE"))
}

// this function gets called at the begіnning of a test session
func setup() {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		panic(err)
	}
	token, err := fernet.EncryptAndSign([]byte("not-a-real-api-key"), &key)
	if err != nil {
		panic(err)
	}
	os.Setenv(SecretKeyVariable, key.Encode())
	os.Setenv("CLIMIND_TEST_CDS_SECRET", fernetPrefix+string(token))
	os.Setenv("CLIMIND_TEST_DATA_DIR", os.TempDir())
}

// this function gets called after all tests have been run
func breakdown() {
}

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	var status int
	setup()
	status = m.Run()
	breakdown()
	os.Exit(status)
}
