package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// global config variables
var Service serviceConfig
var Climatology climatologyConfig
var Credentials map[string]CredentialConfig
var Fetchers map[string]FetcherConfig
var Refresh refreshConfig

// This struct performs the unmarshalling from the YAML config file and then
// copies its fields to the globals above.
type configFile struct {
	Service     serviceConfig               `yaml:"service"`
	Climatology climatologyConfig           `yaml:"climatology"`
	Credentials map[string]CredentialConfig `yaml:"credentials" validate:"dive"`
	Fetchers    map[string]FetcherConfig    `yaml:"fetchers" validate:"dive"`
	Refresh     refreshConfig               `yaml:"refresh"`
}

// service parameters
type serviceConfig struct {
	// port on which the catalog service listens
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
	// maximum number of simultaneous connections to the service
	MaxConnections int `yaml:"max_connections" validate:"gt=0"`
	// directory into which collections are downloaded (one subdirectory per
	// collection)
	DataDirectory string `yaml:"data_dir" validate:"required"`
	// directory holding collection metadata documents
	MetadataDirectory string `yaml:"metadata_dir" validate:"required"`
	// SQLite database file in which fetches are journaled (optional)
	Journal string `yaml:"journal,omitempty"`
	// one of "debug", "info", "warn", "error"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// the baseline period against which anomalies are expressed
type climatologyConfig struct {
	Start int `yaml:"start" validate:"gt=0"`
	End   int `yaml:"end" validate:"gtfield=Start"`
}

// periodic download of selected datasets
type refreshConfig struct {
	// interval between refreshes (e.g. "24h"; empty disables refreshing)
	Interval string `yaml:"interval,omitempty"`
	// selection criteria for datasets to refresh (all datasets if empty)
	Criteria map[string]any `yaml:"criteria,omitempty"`
}

var validate = validator.New()

// Loads environment variables from the given .env files (or from .env in
// the current directory if none are given). Missing files are not an error.
func LoadEnvFile(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, filename := range filenames {
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			log.Printf("No environment file %s found; skipping", filename)
			continue
		}
		if err := godotenv.Load(filename); err != nil {
			return err
		}
	}
	return nil
}

// This helper locates and reads a configuration file, returning an error
// indicating success or failure. All environment variables of the form
// ${ENV_VAR} are expanded.
func readConfig(bytes []byte) error {
	// Before we do anything else, expand any provided environment variables.
	bytes = []byte(os.ExpandEnv(string(bytes)))

	var conf configFile
	conf.Service.Port = 8080
	conf.Service.MaxConnections = 100
	conf.Service.DataDirectory = "data"
	conf.Service.MetadataDirectory = "metadata"
	conf.Service.LogLevel = "info"
	conf.Climatology.Start = 1981
	conf.Climatology.End = 2010
	err := yaml.Unmarshal(bytes, &conf)
	if err != nil {
		log.Printf("Couldn't parse configuration data: %s\n", err)
		return err
	}
	if err := validate.Struct(conf); err != nil {
		return fmt.Errorf("Invalid configuration: %s", err.Error())
	}

	// copy the config data into place
	Service = conf.Service
	Climatology = conf.Climatology
	Credentials = conf.Credentials
	Fetchers = conf.Fetchers
	Refresh = conf.Refresh

	return err
}

// This helper performs the cross-field checks that struct tags can't express,
// validating the given configfile, returning an error that indicates
// success or failure.
func validateConfig() error {
	err := validateCredentials(Credentials)
	if err != nil {
		return err
	}
	err = validateFetchers(Fetchers, Credentials)
	if err != nil {
		return err
	}
	_, err = Refresh.Period()
	return err
}

// Initializes the climind configuration using the given YAML byte data.
func Init(yamlData []byte) error {
	if len(strings.TrimSpace(string(yamlData))) == 0 {
		return fmt.Errorf("The configuration is empty")
	}

	// Read the configuration from our YAML file.
	err := readConfig(yamlData)
	if err != nil {
		return err
	}

	// Validate the configuration.
	err = validateConfig()
	return err
}
