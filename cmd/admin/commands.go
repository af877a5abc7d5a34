package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carrental/internal/cmdsupport"
	"carrental/internal/entities"
	"carrental/internal/service"

	"github.com/maruel/subcommands"
)

var cmdCars = &subcommands.Command{
	UsageLine: "cars",
	ShortDesc: "list every car",
	CommandRun: func() subcommands.CommandRun {
		return &carsRun{}
	},
}

type carsRun struct {
	subcommands.CommandRunBase
}

func (c *carsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		return printCars(ctx, a, rt)
	})
}

// printCars renders the car list from the cache, refetching it when a
// mutation invalidated it.
func printCars(ctx context.Context, a subcommands.Application, rt *cmdsupport.Runtime) error {
	view := rt.Admin.CarList(ctx)
	if err := cmdsupport.WriteCarList(a.GetOut(), view); err != nil {
		return err
	}
	if view.Err != nil {
		return cmdsupport.Shown(view.Err)
	}
	return nil
}

var cmdAddCar = &subcommands.Command{
	UsageLine: "add-car -make <make> -model <model> -year <year> -type <Sedan|SUV|Hatchback|Truck>",
	ShortDesc: "add a car to the fleet",
	CommandRun: func() subcommands.CommandRun {
		c := &addCarRun{}
		c.Flags.StringVar(&c.form.Make, "make", "", "car make, e.g. Toyota")
		c.Flags.StringVar(&c.form.Model, "model", "", "car model, e.g. Corolla")
		c.Flags.StringVar(&c.form.Year, "year", "", "model year")
		c.Flags.StringVar(&c.form.Type, "type", "", "Sedan, SUV, Hatchback or Truck")
		return c
	},
}

type addCarRun struct {
	subcommands.CommandRunBase
	form entities.CarForm
}

func (c *addCarRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		if _, err := rt.Admin.AddCar(ctx, c.form); err != nil {
			return err
		}
		return printCars(ctx, a, rt)
	})
}

var cmdDeleteCar = &subcommands.Command{
	UsageLine: "delete-car <id>",
	ShortDesc: "remove a car from the fleet",
	CommandRun: func() subcommands.CommandRun {
		return &deleteCarRun{}
	},
}

type deleteCarRun struct {
	subcommands.CommandRunBase
}

func (c *deleteCarRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		if len(args) != 1 {
			return errors.New("delete-car takes exactly one car id")
		}
		if err := rt.Admin.DeleteCar(ctx, args[0]); err != nil {
			return err
		}
		return printCars(ctx, a, rt)
	})
}

var cmdAddCustomer = &subcommands.Command{
	UsageLine: "add-customer -name <name> -email <email> -phone <phone> -license <drivers license>",
	ShortDesc: "submit a customer record",
	CommandRun: func() subcommands.CommandRun {
		c := &addCustomerRun{}
		c.Flags.StringVar(&c.form.Name, "name", "", "full name")
		c.Flags.StringVar(&c.form.Email, "email", "", "email address")
		c.Flags.StringVar(&c.form.PhoneNumber, "phone", "", "phone number")
		c.Flags.StringVar(&c.form.DriversLicense, "license", "", "driver's license number")
		return c
	},
}

type addCustomerRun struct {
	subcommands.CommandRunBase
	form entities.CustomerForm
}

func (c *addCustomerRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		customer, err := rt.Admin.SubmitCustomer(ctx, c.form)
		if err != nil {
			return err
		}
		if customer.ID != "" {
			fmt.Fprintf(a.GetOut(), "Customer ID: %s\n", customer.ID)
		}
		return nil
	})
}

var cmdWatch = &subcommands.Command{
	UsageLine: "watch [-schedule <cron spec>]",
	ShortDesc: "keep printing the car list as it changes",
	LongDesc:  "Refetches the car list on a cron schedule and prints it whenever it changes. Stop with Ctrl-C.",
	CommandRun: func() subcommands.CommandRun {
		c := &watchRun{}
		c.Flags.StringVar(&c.schedule, "schedule", "", "cron spec, defaults to CARRENTAL_WATCH_SCHEDULE or @every 30s")
		return c
	},
}

type watchRun struct {
	subcommands.CommandRunBase
	schedule string
}

func (c *watchRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		schedule := c.schedule
		if schedule == "" {
			schedule = rt.Config.Watch.Schedule
		}
		return watchCars(ctx, a, rt, schedule)
	})
}

func watchCars(ctx context.Context, a subcommands.Application, rt *cmdsupport.Runtime, schedule string) error {
	watcher := service.NewWatchService(rt.Deps)
	if _, err := watcher.Watch(schedule, service.CarsKey()); err != nil {
		return err
	}
	sub := rt.Admin.SubscribeCars()
	defer sub.Close()
	watcher.Start()
	defer watcher.Stop()

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case st, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			if !st.Settled() || st.UpdatedAt.Equal(last) {
				continue
			}
			last = st.UpdatedAt
			fmt.Fprintf(a.GetOut(), "Cars at %s\n", st.UpdatedAt.Format(time.Kitchen))
			if err := cmdsupport.WriteCarList(a.GetOut(), rt.Admin.CarListFromState(st)); err != nil {
				return err
			}
		}
	}
}
