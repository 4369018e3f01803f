package file

import (
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/vedika/internal/core/ports/driven"
)

// Ensure EnvConfigStore implements the interface.
var _ driven.ConfigStore = (*EnvConfigStore)(nil)

// EnvOverrides maps environment variables to config keys. A set variable
// takes precedence over the file value for reads; writes always go to the
// underlying store.
var EnvOverrides = map[string]string{
	"OPENROUTER_API_KEY":  "llm.api_key",
	"OPENROUTER_BASE_URL": "llm.base_url",
	"OPENROUTER_MODEL":    "llm.model",
	"SITE_URL":            "llm.site_url",
	"SITE_NAME":           "llm.site_name",
	"HOST":                "server.host",
	"PORT":                "server.port",
	"VEDIKA_INDEX_PATH":   "index.path",
	"VEDIKA_CORPUS_DIR":   "corpus.dir",
}

// EnvConfigStore wraps a ConfigStore with environment variable overrides.
type EnvConfigStore struct {
	driven.ConfigStore
	lookup    func(string) (string, bool)
	overrides map[string]string // config key -> env var
}

// NewEnvConfigStore wraps store using the process environment.
func NewEnvConfigStore(store driven.ConfigStore) *EnvConfigStore {
	return newEnvConfigStore(store, os.LookupEnv)
}

func newEnvConfigStore(store driven.ConfigStore, lookup func(string) (string, bool)) *EnvConfigStore {
	overrides := make(map[string]string, len(EnvOverrides))
	for env, key := range EnvOverrides {
		overrides[key] = env
	}
	return &EnvConfigStore{ConfigStore: store, lookup: lookup, overrides: overrides}
}

func (s *EnvConfigStore) env(key string) (string, bool) {
	name, ok := s.overrides[key]
	if !ok {
		return "", false
	}
	val, ok := s.lookup(name)
	if !ok || strings.TrimSpace(val) == "" {
		return "", false
	}
	return val, true
}

// Get returns the environment override if set, otherwise the stored value.
func (s *EnvConfigStore) Get(key string) (any, bool) {
	if val, ok := s.env(key); ok {
		return val, true
	}
	return s.ConfigStore.Get(key)
}

// GetString returns the environment override if set, otherwise the stored value.
func (s *EnvConfigStore) GetString(key string) string {
	if val, ok := s.env(key); ok {
		return val
	}
	return s.ConfigStore.GetString(key)
}

// GetInt returns the environment override if it parses as an integer,
// otherwise the stored value.
func (s *EnvConfigStore) GetInt(key string) int {
	if val, ok := s.env(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return s.ConfigStore.GetInt(key)
}

// Source reports the environment variable overriding key, if any.
func (s *EnvConfigStore) Source(key string) (string, bool) {
	if _, ok := s.env(key); !ok {
		return "", false
	}
	return s.overrides[key], true
}
