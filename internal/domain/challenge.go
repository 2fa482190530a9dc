package domain

// Category - which mini-game a challenge mounts
type Category string

const (
	CategoryLogic       Category = "logic"
	CategoryProgramming Category = "programming"
	CategoryLibre       Category = "libre"
	CategoryEngineering Category = "engineering"
)

// Categories lists every category in menu order.
var Categories = []Category{
	CategoryLogic,
	CategoryProgramming,
	CategoryLibre,
	CategoryEngineering,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryLogic, CategoryProgramming, CategoryLibre, CategoryEngineering:
		return true
	}
	return false
}

// Challenge - static mini-game definition, only Completed changes during a run
type Challenge struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    Category `json:"category" yaml:"category"`
	Difficulty  int      `json:"difficulty" yaml:"difficulty"`
	Description string   `json:"description" yaml:"description"`
	Story       string   `json:"story" yaml:"story"`
	TimeLimit   int      `json:"time_limit" yaml:"time_limit"` // seconds
	Completed   bool     `json:"completed" yaml:"-"`
}

// CopyChallenges returns a shallow copy of the slice; Challenge has no reference fields.
func CopyChallenges(in []Challenge) []Challenge {
	if in == nil {
		return nil
	}
	out := make([]Challenge, len(in))
	copy(out, in)
	return out
}
