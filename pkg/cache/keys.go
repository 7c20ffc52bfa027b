package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys a registry response, e.g. HTTPKey("cocoapods:", "alamofire").
	HTTPKey(namespace, key string) string

	// ResultKey keys an assembled lookup result, e.g. ResultKey("pod", "Alamofire").
	ResultKey(kind, name string) string
}

// DefaultKeyer produces "http:<namespace>:<key>" and "<kind>:<name>" keys.
// Result names are lowercased; pod names are case-insensitive on trunk.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey generates a key for HTTP response caching.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ResultKey generates a key for a lookup result.
func (DefaultKeyer) ResultKey(kind, name string) string {
	return kind + ":" + strings.ToLower(strings.TrimSpace(name))
}

// ScopedKeyer wraps a Keyer with a prefix, e.g. to separate authenticated
// GitHub lookups from anonymous ones.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer defaults to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ResultKey generates a prefixed key for a lookup result.
func (k *ScopedKeyer) ResultKey(kind, name string) string {
	return k.prefix + k.inner.ResultKey(kind, name)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
