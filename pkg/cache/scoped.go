package cache

// ScopedKeyer wraps a Keyer with a prefix so several rosters, classes, or
// users can share one backend.
//
// Example usage:
//
//	// Keys for one class
//	classKeyer := NewScopedKeyer(NewDefaultKeyer(), "class:3b:")
//
//	// Unscoped keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RoundKey generates a prefixed round key.
func (k *ScopedKeyer) RoundKey(id string) string {
	return k.prefix + k.inner.RoundKey(id)
}

// LatestKey generates a prefixed latest-round key.
func (k *ScopedKeyer) LatestKey() string {
	return k.prefix + k.inner.LatestKey()
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(roundID string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(roundID, opts)
}
