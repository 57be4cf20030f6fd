package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout request with the given hash.
	LayoutKey(requestHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the layout parameters that affect the result.
type LayoutKeyOpts struct {
	Direction  string  `json:"direction"`
	Engine     string  `json:"engine"`
	NodeWidth  float64 `json:"node_width"`
	NodeHeight float64 `json:"node_height"`
}

const layoutKeyPrefix = "layout:"

// Hash returns the hex-encoded SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer produces unprefixed keys of the form "layout:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the request hash together with opts.
func (DefaultKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	data, _ := json.Marshal(struct {
		Request string `json:"request"`
		LayoutKeyOpts
	}{requestHash, opts})
	return layoutKeyPrefix + Hash(data)
}

// ScopedKeyer namespaces the keys of another Keyer, so that one Redis
// database can be shared with other applications:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "jray:")
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer returns a keyer prepending prefix to the keys of inner.
// A nil inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

// LayoutKey implements [Keyer].
func (k ScopedKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return k.Prefix + k.Inner.LayoutKey(requestHash, opts)
}
