package classify

// #region class

// Class estimates how much depth a query needs.
type Class string

const (
	Low    Class = "low"
	Medium Class = "medium"
	High   Class = "high"
)

// #endregion

// #region profile

// Profile carries the scoring parameters implied by a Class.
type Profile struct {
	Class         Class
	OptimalLength int // target output tokens for the quality ranker
	FavorBrevity  bool
	FavorNuance   bool
}

var profiles = map[Class]Profile{
	Low:    {Class: Low, OptimalLength: 60, FavorBrevity: true},
	Medium: {Class: Medium, OptimalLength: 100},
	High:   {Class: High, OptimalLength: 140, FavorNuance: true},
}

// ProfileFor returns the fixed profile of c. Unknown classes map to Medium.
func ProfileFor(c Class) Profile {
	if p, ok := profiles[c]; ok {
		return p
	}
	return profiles[Medium]
}

// #endregion

// #region result

// Result is the classifier output for one input.
type Result struct {
	Profile
	TokenBudget  int // max output tokens per backend call
	WordCount    int
	ComplexTerms int
	SimpleTerms  int
}

// #endregion
