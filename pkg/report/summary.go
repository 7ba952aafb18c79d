package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/archx/pkg/orchestrator"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/muesli/termenv"
)

// Summary describes a finished run
type Summary struct {
	Config string
	DryRun bool
	Result orchestrator.Result
}

type styles struct {
	title   lipgloss.Style
	applied lipgloss.Style
	failed  lipgloss.Style
	notRun  lipgloss.Style
	kind    lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		applied: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		failed:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		notRun:  r.NewStyle().Foreground(lipgloss.Color("11")),
		kind:    r.NewStyle().Foreground(lipgloss.Color("14")).Width(9),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Write renders s to w in the given format. FormatAuto is treated as
// FormatText; resolve it against the real output first.
func Write(w io.Writer, s Summary, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, s)
	}

	r := lipgloss.NewRenderer(w)
	if format != FormatTerminal {
		r.SetColorProfile(termenv.Ascii)
	}
	st := newStyles(r)

	var b strings.Builder
	title := "archx apply"
	if s.Config != "" {
		title += " " + s.Config
	}
	if s.DryRun {
		title += " (dry run)"
	}
	b.WriteString(st.title.Render(title) + "\n")

	for _, o := range s.Result.Outcomes {
		var mark, text string
		switch o.Status {
		case orchestrator.StatusApplied:
			mark, text = st.applied.Render("✓"), o.Message
		case orchestrator.StatusFailed:
			mark, text = st.failed.Render("✗"), errorText(o.Err)
		default:
			mark, text = st.notRun.Render("-"), st.muted.Render(o.Message)
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			mark, st.muted.Render(fmt.Sprintf("%3d", o.Index)), st.kind.Render(o.Kind), text)
	}

	counts := fmt.Sprintf("%d applied, %d failed, %d not run",
		s.Result.Count(orchestrator.StatusApplied),
		s.Result.Failed,
		s.Result.Count(orchestrator.StatusNotRun))
	if s.Result.OK() {
		b.WriteString(st.applied.Render(counts) + "\n")
	} else {
		b.WriteString(st.failed.Render(counts) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type jsonOutcome struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type jsonSummary struct {
	Config   string        `json:"config,omitempty"`
	DryRun   bool          `json:"dry_run"`
	OK       bool          `json:"ok"`
	Failed   int           `json:"failed"`
	Outcomes []jsonOutcome `json:"outcomes"`
}

func writeJSON(w io.Writer, s Summary) error {
	out := jsonSummary{
		Config:   s.Config,
		DryRun:   s.DryRun,
		OK:       s.Result.OK(),
		Failed:   s.Result.Failed,
		Outcomes: make([]jsonOutcome, 0, len(s.Result.Outcomes)),
	}
	for _, o := range s.Result.Outcomes {
		out.Outcomes = append(out.Outcomes, jsonOutcome{
			Index:   o.Index,
			Kind:    o.Kind,
			Status:  string(o.Status),
			Message: o.Message,
			Error:   errorText(o.Err),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
