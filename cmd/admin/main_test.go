package main

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"carrental/internal/cmdsupport"
	"carrental/internal/config"
	"carrental/internal/fakeapi"
	"carrental/internal/repository"

	"github.com/maruel/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv    *fakeapi.Server
	url    string
	out    bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T, sessionToken string) (*harness, func(args ...string) int) {
	t.Helper()
	h := &harness{srv: fakeapi.NewServer(nil, fakeapi.Options{SessionToken: sessionToken})}
	ts := httptest.NewServer(h.srv)
	t.Cleanup(ts.Close)
	h.url = ts.URL + "/api"

	app := h.app(t, sessionToken, nil)
	return h, func(args ...string) int {
		return subcommands.Run(app, args)
	}
}

// app builds a portal application against the harness server. Each one has
// its own cache and runtime.
func (h *harness) app(t *testing.T, sessionToken string, in io.Reader) *cmdsupport.App {
	app := getApplication()
	app.In = in
	app.Out = &h.out
	app.Err = &h.stderr
	app.LoadConfig = func() (config.Config, error) {
		var cfg config.Config
		cfg.API.URL = h.url
		cfg.API.AdminSession = sessionToken
		cfg.Log.Level = "error"
		cfg.Watch.Schedule = "@every 1s"
		cfg.Server.Port = "5000"
		return cfg, nil
	}
	t.Cleanup(app.Close)
	return app
}

func TestAddCarThenList(t *testing.T) {
	h, run := newHarness(t, "s3cret")

	status := run("add-car", "-make", "Toyota", "-model", "Corolla", "-year", "2022", "-type", "sedan")
	require.Equal(t, 0, status, h.stderr.String())
	out := h.out.String()
	assert.Contains(t, out, "[OK] Car added successfully\n")
	assert.Contains(t, out, "Corolla")
	assert.Contains(t, out, "Sedan")

	h.out.Reset()
	require.Equal(t, 0, run("cars"))
	assert.Contains(t, h.out.String(), "Toyota")
	assert.Contains(t, h.out.String(), "Yes")
}

func TestAddCarValidationError(t *testing.T) {
	h, run := newHarness(t, "")

	status := run("add-car", "-make", "Toyota", "-model", "Corolla", "-year", "twenty", "-type", "Sedan")
	assert.Equal(t, 1, status)
	assert.Contains(t, h.stderr.String(), "year: must be a whole number")
	assert.NotContains(t, h.out.String(), "Failed to add car")
}

func TestDeleteUnknownCarShowsNotification(t *testing.T) {
	h, run := newHarness(t, "")

	status := run("delete-car", "missing")
	assert.Equal(t, 1, status)
	assert.Contains(t, h.out.String(), "[ERROR] Failed to delete car: Car not found\n")
	assert.Empty(t, h.stderr.String())
}

func TestShellRunsLinesAgainstOneRuntime(t *testing.T) {
	h, run := newHarness(t, "")
	shell := h.app(t, "", strings.NewReader(strings.Join([]string{
		`add-car -make Kia -model "Rio 5" -year 2018 -type hatchback`,
		`add-customer -name Ada -email ada@example.com -phone 555 -license DL-1`,
		`cars`,
		`exit`,
	}, "\n")))

	require.Equal(t, 0, subcommands.Run(shell, []string{"shell"}), h.stderr.String())
	out := h.out.String()
	assert.Contains(t, out, "carrental-admin> ")
	assert.Contains(t, out, "Rio 5")
	assert.Contains(t, out, "Hatchback")
	assert.Contains(t, out, "[OK] Customer information submitted successfully!")
	assert.Equal(t, 1, strings.Count(out, "[OK] Car added successfully"))
	assert.NotNil(t, repository.NewCustomerRepository(h.srv.Store).GetByEmail("ada@example.com"))

	h.out.Reset()
	require.Equal(t, 0, run("cars"))
	assert.Contains(t, h.out.String(), "Rio 5")
}

func TestNestedShellIsRejected(t *testing.T) {
	h, _ := newHarness(t, "")
	shell := h.app(t, "", strings.NewReader("shell\nexit\n"))

	assert.Equal(t, 1, subcommands.Run(shell, []string{"shell"}))
	assert.Contains(t, h.stderr.String(), "already in a shell")
}
