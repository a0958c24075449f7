// Package config reads settings from prefixed environment variables
//
// A Conf is a view, cfg.Prefix("CORE_API_") scopes every lookup under it.
// Must* panics through the logger when a value is missing or malformed, May*
// falls back to the default and warns on malformed input
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"codg/internal/platform/logger"
)

// Conf is a namespaced view over the environment
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view, prefixes concatenate
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the full variable name for key
func (c Conf) Key(key string) string { return c.prefix + key }

func (c Conf) get(key string) string { return strings.TrimSpace(os.Getenv(c.Key(key))) }

// Require panics on the first missing key
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		if c.get(k) == "" {
			logger.Get().Panic().Str("key", c.Key(k)).Msg("missing required env")
		}
	}
}

// MustString returns a required value
func (c Conf) MustString(key string) string {
	c.Require(key)
	return c.get(key)
}

// may parses key with parse, returning def when unset or malformed
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Err(err).Msg("invalid env value, using default")
		return def
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string {
	return may(c, key, def, func(s string) (string, error) { return s, nil })
}

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayFloat64 returns the value or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration returns the value or def, e.g. 250ms or 10s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma list dropping blanks, def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.get(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
