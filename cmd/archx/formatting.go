package main

import (
	"os"
	"text/template"

	"github.com/arthur-debert/archx/pkg/report"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// styled reports whether help output may carry escape codes
func styled() bool {
	return os.Getenv("NO_COLOR") == "" && report.IsTerminal(os.Stdout)
}

// bold is the usage template's section heading style
func bold(s string) string {
	if !styled() {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// muted dims flag defaults and hints in help output
func muted(s string) string {
	if !styled() {
		return s
	}
	return pterm.FgGray.Sprint(s)
}

func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":  bold,
		"muted": muted,
	})
}
