package domain

// Screen - top-level view selector of a run
type Screen string

const (
	ScreenIntro     Screen = "intro"
	ScreenMenu      Screen = "menu"
	ScreenChallenge Screen = "challenge"
	ScreenGameOver  Screen = "game_over"
	ScreenVictory   Screen = "victory"
)

// ProgressStep - percentage added per completed challenge
const ProgressStep = 25

// MaxProgress - progress value that ends the run in victory
const MaxProgress = 100

// GameState - the mutable root of one run
type GameState struct {
	Screen          Screen      `json:"screen"`
	ActiveChallenge *Challenge  `json:"active_challenge"`
	ProgressPercent int         `json:"progress_percent"`
	ElapsedSeconds  int         `json:"elapsed_seconds"`
	IsPlaying       bool        `json:"is_playing"`
	Challenges      []Challenge `json:"challenges"`
}

// NewGameState builds the initial state of a run over a copy of challenges.
func NewGameState(challenges []Challenge) GameState {
	fresh := CopyChallenges(challenges)
	for i := range fresh {
		fresh[i].Completed = false
	}
	return GameState{
		Screen:     ScreenIntro,
		Challenges: fresh,
	}
}

// Clone returns a deep copy so callers never share the owned slice or pointer.
func (s GameState) Clone() GameState {
	out := s
	out.Challenges = CopyChallenges(s.Challenges)
	if s.ActiveChallenge != nil {
		active := *s.ActiveChallenge
		out.ActiveChallenge = &active
	}
	return out
}

// FindChallenge returns the index of the challenge with id, or -1.
func (s GameState) FindChallenge(id string) int {
	for i := range s.Challenges {
		if s.Challenges[i].ID == id {
			return i
		}
	}
	return -1
}
