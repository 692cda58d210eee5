package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jrsteele09/go-match-tracker/api"
	"github.com/jrsteele09/go-match-tracker/internal/config"
	"github.com/jrsteele09/go-match-tracker/sessions"
	"github.com/jrsteele09/go-match-tracker/storage"
	"github.com/rs/zerolog"
)

// app wires the persisted credentials, the API client and the session manager for one command.
type app struct {
	cfg     config.Config
	creds   *storage.Credentials
	client  *api.Client
	manager *sessions.Manager
	out     io.Writer
	errOut  io.Writer
	log     zerolog.Logger
}

func newApp(c config.Config, out, errOut io.Writer, log zerolog.Logger, opts ...api.Option) (*app, error) {
	store, err := storage.NewFileStore(c.GetStorageFile(), c.GetStorageKey(), storage.WithFileStoreLogger(log))
	if err != nil {
		return nil, fmt.Errorf("[newApp] %w", err)
	}

	a := &app{
		cfg:    c,
		creds:  storage.NewCredentials(store, c.GetStoragePrefix()),
		out:    out,
		errOut: errOut,
		log:    log,
	}
	opts = append([]api.Option{
		api.WithLogger(log),
		api.WithSignInRedirect(a.signInRequired),
	}, opts...)
	a.client = api.New(c, a.creds, opts...)
	a.manager = sessions.New(a.client, a.creds, sessions.WithLogger(log))
	return a, nil
}

func (a *app) close() {
	a.manager.Close()
}

func (a *app) signInRequired() {
	fmt.Fprintf(a.errOut, "Your session has expired. Sign in again with \"login\" (%s).\n", a.cfg.GetSignInURL())
}

func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		printUsage(a.errOut)
		return fmt.Errorf("unknown command %q", name)
	}
	return cmd.run(ctx, a, args)
}

func (a *app) print(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("[app print] %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: matchtracker [-v] <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %-20s %s\n", name, commands[name].usage)
	}
}
