package authstore

import (
	"strings"

	"github.com/rs/zerolog"
)

// Resolve selects and constructs the Store for the given persistence
// settings. It never fails: without a URL it returns the in-memory store,
// and when the relational store cannot be constructed it logs the failure
// and degrades to in-memory rather than aborting startup.
func Resolve(url, provider string, log zerolog.Logger) Store {
	if url == "" {
		log.Info().Msg("auth storage: in-memory (no database url configured)")
		return NewMemory()
	}

	resolved := NormalizeProvider(provider, log)
	store, err := NewSQL(url, resolved)
	if err != nil {
		log.Error().Err(err).Str("provider", resolved).
			Msg("auth storage init failed, falling back to in-memory")
		return NewMemory()
	}

	log.Info().Str("provider", resolved).Msg("auth storage: relational")
	return store
}

// NormalizeProvider lowercases and canonicalizes a provider name.
// Unsupported names fall back to the default with a warning, never a
// hard failure.
func NormalizeProvider(provider string, log zerolog.Logger) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "":
		return DefaultProvider
	case ProviderPostgres, "postgresql", "pg":
		return ProviderPostgres
	case ProviderSQLite, "sqlite3":
		return ProviderSQLite
	default:
		log.Warn().Str("provider", provider).
			Msgf("unsupported database provider, falling back to %s", DefaultProvider)
		return DefaultProvider
	}
}
