package cmdsupport

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"carrental/internal/entities"
	"carrental/internal/service"

	"github.com/dustin/go-humanize"
)

// ErrorText replaces a view whose query failed.
const ErrorText = "An error occurred"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// WriteCarList prints the admin car table with its availability column.
func WriteCarList(w io.Writer, view service.CarListView) error {
	switch {
	case view.Err != nil:
		_, err := fmt.Fprintln(w, ErrorText)
		return err
	case view.Loading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case len(view.Cars) == 0:
		_, err := fmt.Fprintln(w, "No cars found")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tMAKE\tMODEL\tYEAR\tTYPE\tAVAILABLE\t")
	for _, c := range view.Cars {
		note := ""
		if c.ID == view.Deleting {
			note = "deleting"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n", c.ID, c.Make, c.Model, c.Year, c.Type, yesNo(c.Available), note)
	}
	return tw.Flush()
}

// WriteDashboard prints the customer's available and rented cars.
func WriteDashboard(w io.Writer, view service.DashboardView, now time.Time) error {
	fmt.Fprintln(w, "Available cars")
	if err := writeAvailable(w, view); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Your rented cars")
	return writeRented(w, view, now)
}

func writeAvailable(w io.Writer, view service.DashboardView) error {
	switch {
	case view.CarsErr != nil:
		_, err := fmt.Fprintln(w, ErrorText)
		return err
	case len(view.Available) == 0:
		_, err := fmt.Fprintln(w, "No cars available")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tMAKE\tMODEL\tYEAR\tTYPE\t")
	for _, c := range view.Available {
		note := ""
		if c.ID == view.Renting {
			note = "renting"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", c.ID, c.Make, c.Model, c.Year, c.Type, note)
	}
	return tw.Flush()
}

func writeRented(w io.Writer, view service.DashboardView, now time.Time) error {
	switch {
	case view.RentedErr != nil:
		_, err := fmt.Fprintln(w, ErrorText)
		return err
	case len(view.Rented) == 0:
		_, err := fmt.Fprintln(w, "No rented cars")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "RENTAL\tCAR\tMAKE\tMODEL\tYEAR\tTYPE\tRENTED\t")
	for _, r := range view.Rented {
		note := ""
		if r.RentalID == view.Returning {
			note = "returning"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RentalID, r.CarID, r.Make, r.Model, strconv.Itoa(r.Year), r.Type, rentedOn(r, now), note)
	}
	return tw.Flush()
}

// rentedOn renders the start date as "2 days ago", or the raw value when it
// does not parse.
func rentedOn(r entities.RentedCar, now time.Time) string {
	start := r.StartedAt()
	if start.IsZero() {
		if r.RentalStartDate == "" {
			return "-"
		}
		return r.RentalStartDate
	}
	return humanize.RelTime(start, now, "ago", "from now")
}
