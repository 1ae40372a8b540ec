package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/lnr-cli/lnr/internal/git"
	"github.com/lnr-cli/lnr/internal/linear"
)

func Execute() int {
	deps := Dependencies{
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
		Branch:    git.Branch,
		NewClient: linear.NewClient,
	}
	checkLatestVersion(deps.Out)
	return ExecuteWith(deps, os.Args[1:])
}

func ExecuteWith(deps Dependencies, args []string) (code int) {
	cli := &CLI{}

	parser, err := kong.New(
		cli,
		kong.Name("lnr"),
		kong.Description("A tiny unofficial Linear client"),
		kong.Vars{"version": VersionOutput()},
		kong.Writers(deps.Out, deps.Err),
		kong.Exit(func(code int) { panic(exitPanic{Code: code}) }),
	)
	if err != nil {
		_, _ = deps.Err.Write([]byte(err.Error() + "\n"))
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			if exit := parseExitPanic(r); exit != nil {
				code = exit.Code
				return
			}
			panic(r)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		return handleExit(deps, err)
	}

	kctx.BindTo(context.Background(), (*context.Context)(nil))
	kctx.Bind(&commandContext{deps: deps, global: &cli.GlobalOptions})

	if err := kctx.Run(); err != nil {
		return handleExit(deps, err)
	}
	return 0
}

type exitPanic struct {
	Code int
}

func parseExitPanic(val any) *exitPanic {
	switch cast := val.(type) {
	case exitPanic:
		return &cast
	case *exitPanic:
		return cast
	default:
		return nil
	}
}

// handleExit prints the error and returns the process exit code: 0 on
// success, 1 on any failure.
func handleExit(deps Dependencies, err error) int {
	if err == nil {
		return 0
	}
	_, _ = color.New(color.FgRed).Fprintln(deps.Err, err.Error())
	return 1
}
