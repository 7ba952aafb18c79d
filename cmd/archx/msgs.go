package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Apply a declarative machine setup"
	MsgRootLong  = `archx reads a list of desired-state commands (packages, services, symlinks)
from a setup file and applies only what is missing. Running it twice changes
nothing the second time. Answers to conflict prompts are remembered so the
same question is never asked twice.`
	MsgApplyShort      = "Apply a setup file to this machine"
	MsgKindsShort      = "List the command kinds and backends available"
	MsgDecisionsShort  = "Inspect or reset remembered conflict decisions"
	MsgDecListShort    = "List remembered decisions"
	MsgDecForgetShort  = "Forget the decision for a link target (or raw key)"
	MsgDecClearShort   = "Forget every decision"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	MsgApplyExample = `  # Apply ./setup.yaml
  archx apply

  # Preview without changing anything
  archx apply --dry-run -c setup/laptop.toml

  # Replace conflicting files without asking
  archx apply --symlink-conflict replace`

	// Status messages
	MsgNoDecisions      = "No decisions recorded."
	MsgDecisionForgot   = "Forgot %s\n"
	MsgDecisionUnknown  = "No decision recorded for %s\n"
	MsgDecisionsCleared = "Cleared %d decision(s)\n"
	MsgUnavailable      = "\nUnavailable plugins:\n"
	MsgUnavailableItem  = "  %s: %s\n"

	// Error messages
	MsgErrCommandsFailed = "%d of %d commands failed"
	MsgErrNoConfig       = "no setup file given and none of %s exist"

	// Flag descriptions
	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig          = "Setup file (.json, .toml, .yaml, .yml)"
	MsgFlagDryRun          = "Show what would change without changing anything"
	MsgFlagNonInteractive  = "Never prompt; unresolved conflicts are skipped"
	MsgFlagSymlinkConflict = "How to handle existing link targets: ask, replace or skip"
	MsgFlagDecisions       = "Decision store path"
	MsgFlagStopOnError     = "Stop at the first failing command"
	MsgFlagJUnit           = "Also write a JUnit XML report to this path"
	MsgFlagSettings        = "Settings file (default $XDG_CONFIG_HOME/archx/settings.toml)"
	MsgFlagRepoRoot        = "Repository root used to resolve relative link sources"
	MsgFlagFormat          = "Summary format: auto, term, text or json"
)

// MsgUsageTemplate is the cobra usage template
const MsgUsageTemplate = `{{bold "USAGE:"}}{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{bold "ALIASES:"}}
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{bold "EXAMPLES:"}}
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

{{bold "COMMANDS:"}}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{bold "FLAGS:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{bold "GLOBAL FLAGS:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

{{muted (printf "Use \"%s [command] --help\" for more information about a command." .CommandPath)}}{{end}}
`
