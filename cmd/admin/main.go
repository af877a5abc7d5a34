// Command carrental-admin is the staff portal: it manages the car fleet and
// submits customer records.
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
			Name:  "carrental-admin",
			Title: "Admin portal of the car rental service.",
			Commands: []*subcommands.Command{
				subcommands.CmdHelp,
				cmdCars,
				cmdAddCar,
				cmdDeleteCar,
				cmdAddCustomer,
				cmdWatch,
				cmdsupport.ShellCommand(),
			},
		},
		Admin: true,
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
