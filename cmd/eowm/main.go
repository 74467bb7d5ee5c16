package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/eowm/eowm/internal/config"
	"github.com/eowm/eowm/internal/control"
	"github.com/eowm/eowm/internal/engine"
	"github.com/eowm/eowm/internal/launcher"
	"github.com/eowm/eowm/internal/metrics"
	"github.com/eowm/eowm/internal/util"
	"github.com/eowm/eowm/internal/x11"
)

var version = "dev"

type options struct {
	configPath string
	logLevel   string
	noControl  bool
	version    bool
}

func parseFlags(argv []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("eowm", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", defaultConfigPath(), "path to YAML config")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (trace|debug|info|warn|error), overrides the config")
	fs.BoolVar(&opts.noControl, "no-control", false, "do not serve the control socket")
	fs.BoolVarP(&opts.version, "version", "v", false, "print the version and exit")
	if err := fs.Parse(argv); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !util.ValidLogLevel(opts.logLevel) {
		return options{}, fmt.Errorf("invalid log level %q", opts.logLevel)
	}
	return opts, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, config.DefaultPath)
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		exitErr(err)
	}
	if opts.version {
		fmt.Println("eowm", version)
		return
	}
	if err := run(opts); err != nil {
		exitErr(err)
	}
}

// run owns the X connection for the lifetime of the window manager. It
// returns nil after a quit operation or a termination signal.
func run(opts options) error {
	cfgPath, err := filepath.Abs(opts.configPath)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	cfg, found, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := util.NewLogger(util.ParseLogLevel(level))
	if !found {
		logger.Infof("no config at %s, using built-in defaults", cfgPath)
	}

	conn, err := x11.Open(logger.Named("x11"))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector(true)
	spawner := launcher.New(logger.Named("launcher"))
	go spawner.Reap(ctx)

	eng, err := engine.New(conn, conn, spawner, logger.Named("engine"), collector, cfg)
	if err != nil {
		return fmt.Errorf("configure engine: %w", err)
	}
	reloader := newConfigReloader(cfgPath, logger, eng, cfg)
	reload := func(reason string) error { return reloader.Reload(ctx, reason) }

	reloads := make(chan string, 1)
	if watcher, err := newConfigWatcher(cfgPath, logger); err != nil {
		logger.Warnf("%v", err)
	} else {
		defer watcher.Close()
		go watcher.Run(ctx, reloads)
	}

	if cfg.Control.Enabled && !opts.noControl {
		srv, err := control.NewServer(eng, collector, logger.Named("control"), reload, cfg.Control.Socket)
		if err != nil {
			return fmt.Errorf("start control server: %w", err)
		}
		go func() {
			if err := srv.Serve(ctx); err != nil {
				logger.Errorf("control server: %v", err)
			}
		}()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)

	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	for {
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("engine: %w", err)
			}
			logger.Infof("engine stopped")
			return nil
		case reason := <-reloads:
			if err := reload(reason); err != nil {
				logger.Errorf("reload failed: %v", err)
			}
		case sig := <-sigs:
			if sig == syscall.SIGHUP {
				if err := reload("received SIGHUP"); err != nil {
					logger.Errorf("reload failed: %v", err)
				}
				continue
			}
			logger.Infof("received %s, shutting down", sig)
			cancel()
		}
	}
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
