package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"stevedore/internal/docker"
	"stevedore/internal/history"
	"stevedore/internal/tui"
)

// version is set via -ldflags at build time.
var version = "dev"

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if opts.showVersion {
		fmt.Println("stevedore " + version)
		return
	}
	run(opts)
}

// cliOptions is the parsed command line.
type cliOptions struct {
	configPath  string
	socketPath  string
	noHistory   bool
	showVersion bool
}

func parseArgs(args []string) (*cliOptions, error) {
	fs := flag.NewFlagSet("stevedore", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  stevedore [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "path to config file")
	socketPath := fs.String("socket", "", "Docker socket path (overrides config)")
	noHistory := fs.Bool("no-history", false, "disable the restart audit log")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &cliOptions{
		configPath:  *configPath,
		socketPath:  *socketPath,
		noHistory:   *noHistory,
		showVersion: *showVersion,
	}, nil
}

func run(opts *cliOptions) {
	cfgPath, err := tui.EnsureDefaultConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := tui.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config %s: %v\n", cfgPath, err)
		os.Exit(1)
	}
	if opts.socketPath != "" {
		cfg.Docker.Socket = opts.socketPath
	}

	inv, err := docker.New(docker.Options{
		Socket:  cfg.Docker.Socket,
		Include: cfg.Docker.Include,
		Exclude: cfg.Docker.Exclude,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "docker: %v\n", err)
		os.Exit(1)
	}
	defer inv.Close()

	var store *history.Store
	if !opts.noHistory && cfg.History.Path != "off" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			// The dashboard works without an audit log.
			fmt.Fprintf(os.Stderr, "warning: audit log disabled: %v\n", err)
		} else {
			defer store.Close()
		}
	}

	app := tui.NewApp(inv, inv, store, *cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}
