package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/newport-ds/ndsdist/cmd/ndsdist/commands"
	ferrors "github.com/newport-ds/ndsdist/internal/foundation/errors"
	"github.com/newport-ds/ndsdist/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("ndsdist"),
		kong.Description("Package the Newport Design System for publication."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := parser.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
