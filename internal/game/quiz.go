package game

import (
	"fmt"
	"slices"

	"nexus_game/internal/domain"
)

// LibrePassMark - correct answers needed to pass the free software quiz
const LibrePassMark = 3

// QuizGame - multiple-choice quiz, used by the code-debugging and the
// free-software challenges with different pass rules.
type QuizGame struct {
	base
	category  domain.Category
	questions []Question
	current   int
	correct   int
	failFast  bool // first wrong answer fails the attempt
	passMark  int
	last      *answerFeedback
}

type answerFeedback struct {
	Question    int    `json:"question"`
	Answer      string `json:"answer"`
	Correct     bool   `json:"correct"`
	Solution    string `json:"solution"`
	Explanation string `json:"explanation,omitempty"`
}

// NewProgrammingGame needs every answer right; one mistake fails.
func NewProgrammingGame() *QuizGame {
	return newQuiz(domain.CategoryProgramming, programmingQuestions, true, len(programmingQuestions))
}

// NewLibreGame needs LibrePassMark right answers out of four.
func NewLibreGame() *QuizGame {
	return newQuiz(domain.CategoryLibre, libreQuestions, false, LibrePassMark)
}

func newQuiz(category domain.Category, questions []Question, failFast bool, passMark int) *QuizGame {
	g := &QuizGame{
		base:      newBase(),
		category:  category,
		questions: questions,
		failFast:  failFast,
		passMark:  passMark,
	}
	g.phase = PhaseAwaitingInput
	return g
}

func (g *QuizGame) Category() domain.Category { return g.category }

func (g *QuizGame) ClockRunning() bool { return g.phase != PhaseResolved }

func (g *QuizGame) HandleMove(m Move) error {
	if err := g.checkOpen(); err != nil {
		return err
	}
	if m.Action != ActionAnswer {
		return fmt.Errorf("%w: quiz action %q", ErrInvalidMove, m.Action)
	}

	q := g.questions[g.current]
	if !slices.Contains(q.Options, m.Answer) {
		return fmt.Errorf("%w: %q is not an option", ErrInvalidMove, m.Answer)
	}

	ok := m.Answer == q.Correct
	g.last = &answerFeedback{
		Question:    g.current,
		Answer:      m.Answer,
		Correct:     ok,
		Solution:    q.Correct,
		Explanation: q.Explanation,
	}
	if ok {
		g.correct++
	} else if g.failFast {
		g.resolve(OutcomeFailed)
		return nil
	}

	if g.current < len(g.questions)-1 {
		g.current++
		return nil
	}

	if g.correct >= g.passMark {
		g.resolve(OutcomePassed)
	} else {
		g.resolve(OutcomeFailed)
	}
	return nil
}

// Correct returns how many answers were right so far.
func (g *QuizGame) Correct() int { return g.correct }

func (g *QuizGame) SerializeState() any {
	state := map[string]any{
		"type":      g.category,
		"phase":     g.phase,
		"outcome":   g.outcome,
		"index":     g.current,
		"total":     len(g.questions),
		"correct":   g.correct,
		"pass_mark": g.passMark,
	}
	if g.phase != PhaseResolved {
		state["question"] = g.questions[g.current]
	}
	if g.last != nil {
		state["last_answer"] = *g.last
	}
	return state
}
