// Command carrental-customer is the customer portal: sign up or log in,
// browse the cars that can be rented, rent and return them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"carrental/internal/cmdsupport"

	"github.com/maruel/subcommands"
)

func getApplication() *cmdsupport.App {
	return &cmdsupport.App{
		DefaultApplication: &subcommands.DefaultApplication{
			Name:  "carrental-customer",
			Title: "Customer portal of the car rental service.",
			Commands: []*subcommands.Command{
				subcommands.CmdHelp,
				cmdSignUp,
				cmdLogIn,
				cmdLogOut,
				cmdCars,
				cmdRent,
				cmdReturn,
				cmdsupport.ShellCommand(),
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := getApplication()
	app.Ctx = ctx
	status := subcommands.Run(app, nil)
	app.Close()
	stop()
	os.Exit(status)
}
