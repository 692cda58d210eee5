package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-match-tracker/internal/config"
	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		if apperrors.Is(err, apperrors.ErrNotAuthenticated) {
			fmt.Fprintln(os.Stderr, "Sign in with: matchtracker login -u <username|email>")
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()
	c := config.New()

	fs := flag.NewFlagSet(c.GetAppName(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log requests and token refreshes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 || fs.Arg(0) == "help" {
		displayAppname(stdout, c.GetAppName())
		printUsage(stdout)
		return nil
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()

	a, err := newApp(c, stdout, stderr, log)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
