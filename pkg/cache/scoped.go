package cache

// ScopedKeyer wraps a Keyer with a prefix, giving separate namespaces to
// deployments that share one Redis or Mongo backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// CountKey generates a prefixed key for wall count caching.
func (k *ScopedKeyer) CountKey(width, height int, opts CountKeyOpts) string {
	return k.prefix + k.inner.CountKey(width, height, opts)
}
