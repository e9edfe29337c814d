package config

import (
	"fmt"
	"time"
)

// the kinds of configurable fetchers
const (
	URLFetcherKind   = "url"
	LocalFetcherKind = "local"
)

// a named fetcher
type FetcherConfig struct {
	// "url" (HTTP/HTTPS download) or "local" (copy from the filesystem)
	Kind string `yaml:"kind" validate:"oneof=url local"`
	// name of the credential used to authenticate (url fetchers only)
	Credential string `yaml:"credential,omitempty"`
	// request timeout in seconds (url fetchers only, default: 300)
	Timeout int `yaml:"timeout,omitempty" validate:"gte=0"`
	// number of retries after a failed request (url fetchers only)
	Retries int `yaml:"retries,omitempty" validate:"gte=0"`
	// initial delay between retries in milliseconds, doubled for each retry
	// (url fetchers only, default: 500)
	Backoff int `yaml:"backoff,omitempty" validate:"gte=0"`
	// directory against which relative paths are resolved (local fetchers only)
	Root string `yaml:"root,omitempty"`
}

// returns the request timeout, applying the default if none is set
func (f FetcherConfig) TimeoutDuration() time.Duration {
	if f.Timeout == 0 {
		return 300 * time.Second
	}
	return time.Duration(f.Timeout) * time.Second
}

// returns the initial retry delay, applying the default if none is set
func (f FetcherConfig) BackoffDuration() time.Duration {
	if f.Backoff == 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(f.Backoff) * time.Millisecond
}

// checks that fetchers refer only to defined credentials, and only where they
// can use them
func validateFetchers(fetchers map[string]FetcherConfig,
	credentials map[string]CredentialConfig) error {
	for name, fetcher := range fetchers {
		switch fetcher.Kind {
		case URLFetcherKind:
			if fetcher.Credential != "" {
				if _, found := credentials[fetcher.Credential]; !found {
					return fmt.Errorf("Fetcher '%s' uses undefined credential '%s'",
						name, fetcher.Credential)
				}
			}
		case LocalFetcherKind:
			if fetcher.Credential != "" {
				return fmt.Errorf("Local fetcher '%s' can't use a credential", name)
			}
		default:
			return fmt.Errorf("Fetcher '%s' has invalid kind '%s' (must be %s or %s)",
				name, fetcher.Kind, URLFetcherKind, LocalFetcherKind)
		}
	}
	return nil
}

// returns the refresh interval, or zero if refreshing is disabled
func (r refreshConfig) Period() (time.Duration, error) {
	if r.Interval == "" {
		return 0, nil
	}
	period, err := time.ParseDuration(r.Interval)
	if err != nil {
		return 0, fmt.Errorf("Invalid refresh interval '%s': %s", r.Interval, err.Error())
	}
	if period < time.Minute {
		return 0, fmt.Errorf("Invalid refresh interval '%s' (must be at least 1m)", r.Interval)
	}
	return period, nil
}
