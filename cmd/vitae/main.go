// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/vitae"
	"github.com/poiesic/vitae/config"
	"github.com/poiesic/vitae/core"
	"github.com/urfave/cli/v2"
)

const defaultConfigPath = "vitae.toml"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vitae",
		Usage: "Build and maintain CVs from documents, emails and search results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   defaultConfigPath,
				EnvVars: []string{"VITAE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
				EnvVars: []string{"VITAE_DB"},
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User whose CV is operated on",
				EnvVars: []string{"VITAE_USER"},
			},
			&cli.StringFlag{
				Name:  "ai-host",
				Usage: "Completion service host URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "ai-model",
				Usage: "Completion model name (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			ingestCommand(),
			ingestEmailCommand(),
			submitCommand(),
			statusCommand(),
			cancelCommand(),
			pendingCommand(),
			duplicatesCommand(),
			findCommand(),
			missingDatesCommand(),
			redateCommand(),
			creditsCommand(),
			showCommand(),
			watchCommand(),
		},
	}
}

// loadConfig reads the configuration file and applies flag overrides. The
// default file may be absent; an explicitly named one may not.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	cfg, err := config.Load(path, !c.IsSet("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if db := c.String("db"); db != "" {
		cfg.Storage.Path = db
	}
	if host := c.String("ai-host"); host != "" {
		cfg.AI.Host = host
	}
	if model := c.String("ai-model"); model != "" {
		cfg.AI.Model = model
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openDatabase(c *cli.Context) (*vitae.Database, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	db, err := vitae.Open(cfg, vitae.WithLogger(slog.Default()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}

func requireUser(c *cli.Context) (core.UserID, error) {
	user := strings.TrimSpace(c.String("user"))
	if user == "" {
		return "", fmt.Errorf("--user is required: %w", core.ErrMissingUser)
	}
	return core.UserID(user), nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
