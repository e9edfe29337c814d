// Copyright (c) 2023 The KBase Project and its Contributors
// Copyright (c) 2023 Cohere Consulting, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// The fetchers package provides the built-in fetchers that download raw
// provider data: an HTTP(S) fetcher and a local file copier. Fetchers are
// registered with a capabilities.Registry under configurable names.
package fetchers

import (
	"fmt"
	"sort"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/config"
)

// names of the fetchers registered by default
const (
	StandardURL = "standard_url"
	LocalCopy   = "local_copy"
)

// configurations of the fetchers registered by default
func defaultConfigs() map[string]config.FetcherConfig {
	return map[string]config.FetcherConfig{
		StandardURL: {Kind: config.URLFetcherKind, Retries: 3},
		LocalCopy:   {Kind: config.LocalFetcherKind},
	}
}

// Registers the default fetchers and those in the given configurations (which
// may redefine the defaults). Credentials named by the configurations are
// looked up in credentials.
func Register(registry *capabilities.Registry,
	fetcherConfigs map[string]config.FetcherConfig,
	credentials map[string]config.CredentialConfig) error {
	configs := defaultConfigs()
	for name, cfg := range fetcherConfigs {
		configs[name] = cfg
	}
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fetch, err := newFetchFunc(name, configs[name], credentials)
		if err != nil {
			return err
		}
		if err := registry.RegisterFetcher(name, fetch); err != nil {
			return err
		}
	}
	return nil
}

// creates the fetch function for the named fetcher configuration
func newFetchFunc(name string, cfg config.FetcherConfig,
	credentials map[string]config.CredentialConfig) (capabilities.FetchFunc, error) {
	switch cfg.Kind {
	case config.URLFetcherKind:
		fetcher := NewURLFetcher(name, cfg.TimeoutDuration(), cfg.Retries, cfg.BackoffDuration())
		if cfg.Credential != "" {
			credential, found := credentials[cfg.Credential]
			if !found {
				return nil, &InvalidConfigError{
					Fetcher: name,
					Message: fmt.Sprintf("undefined credential '%s'", cfg.Credential),
				}
			}
			secret, err := credential.PlainSecret()
			if err != nil {
				return nil, &InvalidConfigError{Fetcher: name, Message: err.Error()}
			}
			fetcher.Username = credential.Username
			fetcher.Password = secret
		}
		return fetcher.Fetch, nil
	case config.LocalFetcherKind:
		return LocalFetcher{Root: cfg.Root}.Fetch, nil
	default:
		return nil, &InvalidConfigError{
			Fetcher: name,
			Message: fmt.Sprintf("unknown kind '%s'", cfg.Kind),
		}
	}
}
