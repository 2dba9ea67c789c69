// Package entry owns process startup: config, logging, exit codes.
package entry

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/gridcast/gridcast/internal/cli/app"
	"github.com/gridcast/gridcast/internal/config"
	"github.com/gridcast/gridcast/internal/identity"
	"github.com/gridcast/gridcast/internal/logging"
)

// Run starts the CLI and returns the process exit code.
func Run(args []string, version string) int {
	appName := identity.CLIName
	mode := logging.ModeFromArgs(args)

	logCfg := logging.Config{}
	if cfg, err := config.Load(""); err == nil {
		logCfg = cfg.Logging
	} else {
		fmt.Fprintf(os.Stderr, "%s: load config: %v\n", appName, err)
		return 1
	}

	closeLogger, err := logging.Init(context.Background(), logCfg, logging.InitOptions{
		App:     identity.AppSlug,
		Version: version,
		Mode:    mode,
	})
	if err != nil {
		if mode == logging.ModeMirror {
			fmt.Fprintf(os.Stderr, "%s: init logging: %v\n", appName, err)
			return 1
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
		slog.Error("init logging failed; using stderr fallback", "err", err)
	} else if closeLogger != nil {
		defer func() { _ = closeLogger() }()
	}

	root := app.New(app.DefaultDependencies(version))
	if err := root.Run(context.Background(), args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintf(os.Stderr, "%s: %s\n", appName, msg)
			}
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}
