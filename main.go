package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"git.unix.lgbt/diamondburned/topaz/topaz"
	"git.unix.lgbt/diamondburned/topaz/topaz/exec"
	"git.unix.lgbt/diamondburned/topaz/topaz/journal"
	"git.unix.lgbt/diamondburned/topaz/topaz/renderer"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	appName   = "topaz"
	envPrefix = "TOPAZ_"
)

var version = "0.1.0"

// statusTimeFormat is how status prints journal timestamps.
const statusTimeFormat = "2006-01-02 15:04:05"

func main() {
	app := &cli.App{
		Name:    appName,
		Usage:   "keep a looping video as the desktop wallpaper",
		Version: version,
		Description: "topaz plays the media file named by the file= key of its config file\n" +
			"as the desktop background, and restarts the player whenever the\n" +
			"config file changes.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path",
			},
			&cli.StringFlag{
				Name:    "journal",
				Aliases: []string{"j"},
				Usage:   "journal file path",
			},
			&cli.StringFlag{
				Name:  "renderer-log",
				Usage: "file to write the renderer output into",
			},
			&cli.DurationFlag{
				Name:  "wait-timeout",
				Usage: "time given to the renderer to exit before it is killed",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "more verbose output",
			},
		},
		Action: start,
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "print what the last session left in the journal",
				Action: status,
			},
			{
				Name:   "check",
				Usage:  "check that the renderer programs are installed",
				Action: check,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln("Error:", err)
	}
}

// optionFlags are the flags that map to topaz.Options keys.
var optionFlags = []string{"config", "journal", "renderer-log", "wait-timeout", "verbose"}

// loadOptions resolves the options from defaults, $TOPAZ_* and then the flags
// that were actually given.
func loadOptions(c *cli.Context) (topaz.Options, error) {
	defaults, err := topaz.DefaultOptions(appName)
	if err != nil {
		return topaz.Options{}, err
	}

	overrides := map[string]interface{}{}
	for _, name := range optionFlags {
		if !c.IsSet(name) {
			continue
		}

		key := strings.ReplaceAll(name, "-", "_")

		switch name {
		case "wait-timeout":
			overrides[key] = c.Duration(name)
		case "verbose":
			overrides[key] = c.Bool(name)
		default:
			overrides[key] = c.String(name)
		}
	}

	return topaz.LoadOptions(defaults, overrides, envPrefix)
}

func start(c *cli.Context) error {
	if c.Args().Present() {
		return fmt.Errorf("unknown argument %q, pass -h for usage", c.Args().First())
	}

	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	logger, err := journal.NewLogger(opts.Verbose)
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	defer logger.Sync()

	human := journal.NewZapWriter(logger)

	if err := topaz.CheckDependencies(nil, renderer.Dependencies, human); err != nil {
		return err
	}

	j, err := journal.NewFileLockJournaler(opts.Journal)
	if err != nil {
		if errors.Is(err, journal.ErrLockedElsewhere) {
			// Non-fatal error.
			logger.Info("topaz is already running", zap.String("journal", opts.Journal))
			return nil
		}

		return errors.Wrap(err, "failed to acquire journal lock")
	}
	defer j.Close()

	warnUncleanExit(j, human)

	journaler := journal.MultiWriter(j, human)
	journaler.Write(&topaz.EventAcquired{})

	out, err := renderer.NewOutput(opts.RendererLog)
	if err != nil {
		return err
	}
	defer out.Close()

	proc := topaz.NewProcessHandle(renderer.DefaultTemplate, exec.Options{Stdout: out, Stderr: out}, journaler)
	proc.WaitTimeout = opts.WaitTimeout

	sup := topaz.NewSupervisor(topaz.NewConfigStore(opts.Config), proc, journaler)
	sup.Verbose = opts.Verbose

	// Listen before the first renderer starts, so that an early ^C still
	// stops it.
	signals := topaz.ListenSignals()
	defer signals.Stop()

	if err := sup.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	w, err := topaz.NewWatcher(ctx, opts.Config, journaler)
	if err != nil {
		sup.Abort()
		return err
	}

	logger.Info("watching for config file changes", zap.String("path", w.Path()))

	sup.Run(w.Events, signals.Done())
	return nil
}

// warnUncleanExit warns if the previous session never stopped its renderer,
// which only happens if topaz itself was killed.
func warnUncleanExit(r topaz.JournalReader, j topaz.Journaler) {
	prev, err := topaz.ReadPreviousState(r)
	if err != nil {
		j.Write(&topaz.EventWarning{
			Component: "journal",
			Error:     err.Error(),
		})
		return
	}

	if prev.Process != nil && prev.State != topaz.StateStopped {
		j.Write(&topaz.EventWarning{
			Component: "journal",
			Error: fmt.Sprintf(
				"previous session did not stop renderer %d (%s), it may still be running",
				prev.Process.PID, prev.Process.File,
			),
		})
	}
}

func status(c *cli.Context) error {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	running, err := journal.IsLocked(opts.Journal)
	if err != nil {
		return err
	}

	state, err := journal.ReadPreviousStateFromFile(opts.Journal)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			fmt.Println("topaz has never run")
			return nil
		}
		return errors.Wrap(err, "failed to read journal")
	}

	writeStatus(os.Stdout, running, state)
	return nil
}

// writeStatus prints the state left in the journal.
func writeStatus(w io.Writer, running bool, state *topaz.PreviousState) {
	fmt.Fprintf(w, "running:  %t\n", running)
	fmt.Fprintf(w, "state:    %s\n", state.State)
	fmt.Fprintf(w, "updated:  %s\n", state.Time.Format(statusTimeFormat))

	if state.Process != nil {
		fmt.Fprintf(w, "renderer: pid %d, %s\n", state.Process.PID, state.Process.File)
	} else {
		fmt.Fprintln(w, "renderer: none")
	}
}

func check(c *cli.Context) error {
	logger, err := journal.NewLogger(c.Bool("verbose"))
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	defer logger.Sync()

	if err := topaz.CheckDependencies(nil, renderer.Dependencies, journal.NewZapWriter(logger)); err != nil {
		return err
	}

	fmt.Println("all dependencies found:", strings.Join(renderer.Dependencies, ", "))
	return nil
}
