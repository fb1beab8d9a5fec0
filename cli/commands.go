package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check CheckCmd `cmd:"" help:"Check whether Python files are in canonical form."`
	Fmt   FmtCmd   `cmd:"" help:"Reformat a Python file into its canonical form."`
	Parse ParseCmd `cmd:"" help:"Parse a Python file and dump its syntax tree."`
}
