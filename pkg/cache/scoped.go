package cache

// ScopedKeyer prepends a namespace to every key of an inner Keyer, so
// several deployments can share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer
// defaults to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) ReportKey(fingerprint string, minSize, maxSize int) string {
	return k.prefix + k.inner.ReportKey(fingerprint, minSize, maxSize)
}
