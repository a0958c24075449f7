// Package raw reads bootstrap settings without logging, the logger itself
// is configured through it so it must not import the logger
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed environment view
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix returns a child view
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) get(key string) string { return strings.TrimSpace(os.Getenv(c.prefix + key)) }

// Get returns the value or def
func (c Conf) Get(key, def string) string {
	if v := c.get(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1, true and yes in any case; other set values are false
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(c.get(key)); v {
	case "":
		return def
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// GetInt returns a non negative int or def
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.get(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
