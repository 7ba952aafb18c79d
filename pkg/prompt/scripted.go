package prompt

import "github.com/arthur-debert/archx/pkg/errors"

// Scripted replays canned answers in order. It is used by tests and as a
// stand-in wherever a terminal is not available.
type Scripted struct {
	Answers []Answer
	// Asked records every conflict presented, in order
	Asked []Conflict
}

// NewScripted creates a prompter that returns answers in order
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) ResolveConflict(c Conflict) (Answer, error) {
	s.Asked = append(s.Asked, c)
	if len(s.Answers) == 0 {
		return Answer{}, errors.Newf(errors.ErrPrompt, "no scripted answer left for %s", c.Target)
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}

// Calls returns how many times the prompter was asked
func (s *Scripted) Calls() int {
	return len(s.Asked)
}
