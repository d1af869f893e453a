package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/scrivener/internal"
	pkgconfig "github.com/starford/scrivener/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx,
		internal.WithConfig(cfg),
		internal.WithVersion(version),
		internal.WithLogOutput(os.Stderr),
	)
}

func compose(ctx context.Context, cmd *cli.Command) error {
	manifest := cmd.Args().First()
	if manifest == "" {
		return fmt.Errorf("compose: manifest path required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunCompose(ctx, manifest, os.Stdout,
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
	)
}

func demo(_ context.Context, _ *cli.Command) error {
	return internal.RunDemo(os.Stdout)
}

func main() {
	cmd := &cli.Command{
		Name:    "scrivener",
		Usage:   "Assemble documents from text, images, line breaks and tabs, then save the rendering",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (.yaml or .toml)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with live document events",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve document tools over MCP stdio",
				Action: mcp,
			},
			{
				Name:      "compose",
				Usage:     "Render a YAML manifest and save it through the configured backend",
				ArgsUsage: "<manifest>",
				Action:    compose,
			},
			{
				Name:   "demo",
				Usage:  "Build the sample document and print it to the console",
				Action: demo,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
