package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"bloglist/internal/logger"

	"github.com/urfave/cli/v2"
)

const defaultServer = "http://localhost:8080"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		logger.Get(logger.ErrorLevel).Fatalw("blogctl failed", "err", err)
	}
}

func defaultSessionDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".bloglist"
	}
	return filepath.Join(dir, "bloglist")
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "blogctl",
		Usage: "command-line client for the bloglist API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   defaultServer,
				EnvVars: []string{"BLOGLIST_SERVER"},
				Usage:   "API base URL",
			},
			&cli.StringFlag{
				Name:    "session-dir",
				Value:   defaultSessionDir(),
				EnvVars: []string{"BLOGLIST_SESSION_DIR"},
				Usage:   "directory holding the saved login",
			},
		},
		Before: func(c *cli.Context) error {
			a, err := newAppEnv(c.String("server"), c.String("session-dir"), c.App.Writer)
			if err != nil {
				return err
			}
			c.App.Metadata = map[string]any{envKey: a}
			return nil
		},
		After: func(c *cli.Context) error {
			if a, ok := c.App.Metadata[envKey].(*appEnv); ok {
				a.close()
			}
			return nil
		},
		Commands: commands(),
	}
}
