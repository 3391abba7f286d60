package cache

// Keyer derives cache keys for each kind of cached result.
type Keyer interface {
	// SolutionKey is the key for the initial solution of a problem.
	SolutionKey(problemHash, method string) string

	// OptimizeKey is the key for the stepping-stone result of a solution.
	OptimizeKey(solutionHash string, opts OptimizeKeyOpts) string

	// VerifyKey is the key for the exact optimum of a problem.
	VerifyKey(problemHash string) string
}

// OptimizeKeyOpts holds the optimizer settings that change its output.
type OptimizeKeyOpts struct {
	MaxRounds int `json:"max_rounds"`
}

// DefaultKeyer builds keys of the form "kind:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolutionKey implements Keyer.
func (DefaultKeyer) SolutionKey(problemHash, method string) string {
	return kindKey("solution", problemHash, method)
}

// OptimizeKey implements Keyer.
func (DefaultKeyer) OptimizeKey(solutionHash string, opts OptimizeKeyOpts) string {
	return kindKey("optimize", solutionHash, opts)
}

// VerifyKey implements Keyer.
func (DefaultKeyer) VerifyKey(problemHash string) string {
	return "verify:" + problemHash
}

var _ Keyer = DefaultKeyer{}
