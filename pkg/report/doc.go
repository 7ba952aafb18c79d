// Package report renders the result of a run.
//
// A run can be summarized for a terminal (lipgloss styles, colour only when
// the output is a terminal that supports it), as plain text, as JSON, or as
// a JUnit XML file for CI dashboards. The registered command kinds are
// rendered as a markdown table through glamour.
package report
