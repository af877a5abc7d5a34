package cmdsupport

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/maruel/subcommands"
)

// ShellCommand runs the application's other commands from lines read on
// stdin. All lines share one runtime, so the cache and the customer session
// carry over between them.
func ShellCommand() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "shell",
		ShortDesc: "run commands interactively",
		LongDesc:  "Reads one command per line, for example: add-car -make Toyota -model \"Corolla Cross\" -year 2022 -type SUV. Type exit to leave.",
		CommandRun: func() subcommands.CommandRun {
			return &shellRun{}
		},
	}
}

type shellRun struct {
	subcommands.CommandRunBase
}

func (c *shellRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	app, err := FromApplication(a)
	if err != nil {
		PrintError(a, err)
		return 1
	}
	if app.inShell {
		fmt.Fprintln(a.GetErr(), "already in a shell")
		return 1
	}
	app.inShell = true
	defer func() { app.inShell = false }()
	return app.RunShell()
}

// RunShell reads commands until exit or end of input and returns the exit
// status of the last one.
func (a *App) RunShell() int {
	out := a.GetOut()
	prompt := a.GetName() + "> "
	scanner := bufio.NewScanner(a.input())
	status := 0

	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		args, err := SplitArgs(scanner.Text())
		switch {
		case err != nil:
			fmt.Fprintln(a.GetErr(), err)
			status = 1
		case len(args) == 0:
		case args[0] == "exit" || args[0] == "quit":
			return status
		default:
			status = subcommands.Run(a, args)
		}
		fmt.Fprint(out, prompt)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(a.GetErr(), "read input: %s\n", err)
		return 1
	}
	fmt.Fprintln(out)
	return status
}

// SplitArgs tokenises a command line the way the shell does.
func SplitArgs(line string) ([]string, error) {
	args, err := shlex.Split(strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	return args, nil
}
