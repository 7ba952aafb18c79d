package report

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how a summary is written
type Format string

const (
	// FormatAuto picks FormatTerminal or FormatText from the output
	FormatAuto Format = "auto"
	// FormatTerminal is styled, coloured output
	FormatTerminal Format = "term"
	// FormatText is plain text without escape codes
	FormatText Format = "text"
	// FormatJSON is machine-readable output
	FormatJSON Format = "json"
)

var formatNames = map[string]Format{
	"":         FormatAuto,
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
}

// ParseFormat accepts a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	if f, ok := formatNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput,
		"unknown format %q (expected auto, term, text or json)", s)
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Resolve replaces FormatAuto with what w can show. Only a terminal
// with colour support and no NO_COLOR gets FormatTerminal.
func Resolve(f Format, w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	file, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" || !IsTerminal(file) {
		return FormatText
	}
	if termenv.NewOutput(file).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
