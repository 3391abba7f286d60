package cache

// ScopedKeyer prefixes every key from an inner Keyer, so deployments that
// share a Redis database stay apart. The server builds one from the
// cache.prefix setting, e.g. "transport:prod:".
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) SolutionKey(problemHash, method string) string {
	return k.prefix + k.inner.SolutionKey(problemHash, method)
}

func (k ScopedKeyer) OptimizeKey(solutionHash string, opts OptimizeKeyOpts) string {
	return k.prefix + k.inner.OptimizeKey(solutionHash, opts)
}

func (k ScopedKeyer) VerifyKey(problemHash string) string {
	return k.prefix + k.inner.VerifyKey(problemHash)
}

var _ Keyer = ScopedKeyer{}
