package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carrental/internal/cmdsupport"
	"carrental/internal/entities"

	"github.com/maruel/subcommands"
)

var errNoSession = errors.New("not logged in: run login or signup first, or pass -customer")

var cmdSignUp = &subcommands.Command{
	UsageLine: "signup -name <name> -email <email> -phone <phone> -license <drivers license>",
	ShortDesc: "create an account and log in",
	CommandRun: func() subcommands.CommandRun {
		c := &signUpRun{}
		c.Flags.StringVar(&c.form.Name, "name", "", "full name")
		c.Flags.StringVar(&c.form.Email, "email", "", "email address")
		c.Flags.StringVar(&c.form.PhoneNumber, "phone", "", "phone number")
		c.Flags.StringVar(&c.form.DriversLicense, "license", "", "driver's license number")
		return c
	},
}

type signUpRun struct {
	subcommands.CommandRunBase
	form entities.CustomerForm
}

func (c *signUpRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		id, err := rt.Customer.SignUp(ctx, c.form)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.GetOut(), "Customer ID: %s\n", id)
		return nil
	})
}

var cmdLogIn = &subcommands.Command{
	UsageLine: "login -name <name> -email <email>",
	ShortDesc: "log in with the name and email used at signup",
	CommandRun: func() subcommands.CommandRun {
		c := &logInRun{}
		c.Flags.StringVar(&c.name, "name", "", "full name")
		c.Flags.StringVar(&c.email, "email", "", "email address")
		return c
	},
}

type logInRun struct {
	subcommands.CommandRunBase
	name  string
	email string
}

func (c *logInRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		id, err := rt.Customer.LogIn(ctx, c.name, c.email)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.GetOut(), "Customer ID: %s\n", id)
		return nil
	})
}

var cmdLogOut = &subcommands.Command{
	UsageLine: "logout",
	ShortDesc: "forget the current customer",
	CommandRun: func() subcommands.CommandRun {
		return &logOutRun{}
	},
}

type logOutRun struct {
	subcommands.CommandRunBase
}

func (c *logOutRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		rt.Customer.LogOut()
		fmt.Fprintln(a.GetOut(), "Logged out")
		return nil
	})
}

// sessionFlags selects the customer for one-shot commands.
type sessionFlags struct {
	subcommands.CommandRunBase
	customer string
}

func (f *sessionFlags) register() {
	f.Flags.StringVar(&f.customer, "customer", "", "customer id; defaults to the logged in customer")
}

func (f *sessionFlags) session(rt *cmdsupport.Runtime) error {
	if f.customer != "" {
		rt.Customer.UseCustomer(f.customer)
	}
	if !rt.Customer.LoggedIn() {
		return errNoSession
	}
	return nil
}

var cmdCars = &subcommands.Command{
	UsageLine: "cars [-customer <id>]",
	ShortDesc: "show available cars and your rented cars",
	CommandRun: func() subcommands.CommandRun {
		c := &carsRun{}
		c.register()
		return c
	},
}

type carsRun struct {
	sessionFlags
}

func (c *carsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		if err := c.session(rt); err != nil {
			return err
		}
		return printDashboard(ctx, a, rt)
	})
}

func printDashboard(ctx context.Context, a subcommands.Application, rt *cmdsupport.Runtime) error {
	view, err := rt.Customer.Dashboard(ctx)
	if err != nil {
		return err
	}
	if err := cmdsupport.WriteDashboard(a.GetOut(), view, time.Now()); err != nil {
		return err
	}
	if view.Err != nil {
		return cmdsupport.Shown(view.Err)
	}
	return nil
}

var cmdRent = &subcommands.Command{
	UsageLine: "rent [-customer <id>] <car id>",
	ShortDesc: "rent an available car",
	CommandRun: func() subcommands.CommandRun {
		c := &rentRun{}
		c.register()
		return c
	},
}

type rentRun struct {
	sessionFlags
}

func (c *rentRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		if len(args) != 1 {
			return errors.New("rent takes exactly one car id")
		}
		if err := c.session(rt); err != nil {
			return err
		}
		if _, err := rt.Customer.RentCar(ctx, args[0]); err != nil {
			return err
		}
		return printDashboard(ctx, a, rt)
	})
}

var cmdReturn = &subcommands.Command{
	UsageLine: "return [-customer <id>] <rental id>",
	ShortDesc: "return a rented car",
	CommandRun: func() subcommands.CommandRun {
		c := &returnRun{}
		c.register()
		return c
	},
}

type returnRun struct {
	sessionFlags
}

func (c *returnRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return cmdsupport.Run(a, func(ctx context.Context, rt *cmdsupport.Runtime) error {
		if len(args) != 1 {
			return errors.New("return takes exactly one rental id")
		}
		if err := c.session(rt); err != nil {
			return err
		}
		if err := rt.Customer.ReturnCar(ctx, args[0]); err != nil {
			return err
		}
		return printDashboard(ctx, a, rt)
	})
}
