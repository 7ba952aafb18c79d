// Package prompt asks the operator how to resolve conflicts.
package prompt

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/arthur-debert/archx/pkg/decisions"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/charmbracelet/huh"
)

// Conflict describes an existing object in the way of a symlink
type Conflict struct {
	Target string
	Source string
	// Existing describes what occupies Target, e.g. "regular file"
	Existing string
}

// Answer is the operator's choice
type Answer struct {
	Resolution decisions.Resolution
	Always     bool
}

// Prompter resolves conflicts interactively
type Prompter interface {
	ResolveConflict(c Conflict) (Answer, error)
}

const (
	choiceReplace       = "replace"
	choiceSkip          = "skip"
	choiceAlwaysReplace = "always-replace"
	choiceAlwaysSkip    = "always-skip"
)

var answers = map[string]Answer{
	choiceReplace:       {Resolution: decisions.Replace},
	choiceSkip:          {Resolution: decisions.Skip},
	choiceAlwaysReplace: {Resolution: decisions.Replace, Always: true},
	choiceAlwaysSkip:    {Resolution: decisions.Skip, Always: true},
}

// HuhPrompter asks through a huh select form
type HuhPrompter struct {
	In  io.Reader
	Out io.Writer
}

// NewHuhPrompter creates a prompter reading from in and drawing on out
func NewHuhPrompter(in io.Reader, out io.Writer) *HuhPrompter {
	return &HuhPrompter{In: in, Out: out}
}

func (p *HuhPrompter) ResolveConflict(c Conflict) (Answer, error) {
	choice := choiceSkip
	field := huh.NewSelect[string]().
		Title(fmt.Sprintf("%s already exists (%s)", c.Target, c.Existing)).
		Description(fmt.Sprintf("archx wants to link it to %s", c.Source)).
		Options(
			huh.NewOption("Skip, leave it in place", choiceSkip),
			huh.NewOption("Replace it with the link", choiceReplace),
			huh.NewOption("Always skip existing files", choiceAlwaysSkip),
			huh.NewOption("Always replace existing files", choiceAlwaysReplace),
		).
		Value(&choice)

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(p.In).
		WithOutput(p.Out).
		WithShowHelp(false)

	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return Answer{}, errors.New(errors.ErrPrompt, "interactive prompt interrupted")
		}
		return Answer{}, errors.Wrap(err, errors.ErrPrompt, "interactive prompt failed")
	}

	return answers[choice], nil
}
