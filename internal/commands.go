package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/scrivener/internal/compose"
	"github.com/starford/scrivener/internal/document"
	"github.com/starford/scrivener/internal/editor"
	"github.com/starford/scrivener/internal/mcpserver"
	"github.com/starford/scrivener/internal/session"
	"github.com/starford/scrivener/internal/storage"
)

// RunMCP serves the document tools over MCP stdio until stdin closes.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()
	slog.SetDefault(logger)

	store, closer, err := openStorage(app.config, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := session.NewService(store, func(kind, id string) {
		logger.Debug("document event", slog.String("kind", kind), slog.String("id", id))
	})
	logger.Info("MCP server starting on stdio")
	if err := mcpserver.New(svc, app.version).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// RunCompose renders the manifest at path, writes the rendering to out, and
// saves it through the configured backend under the manifest name.
func RunCompose(_ context.Context, path string, out io.Writer, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	m, err := compose.ParseFile(path)
	if err != nil {
		return err
	}

	store, closer, err := openStorage(app.config, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	name := m.Name
	if name == "" {
		name = storage.DefaultName
	}
	ed := editor.New(document.New(), storage.ScopeOf(store, name))
	if err := m.Apply(ed); err != nil {
		return err
	}

	if _, err := io.WriteString(out, ed.RenderDocument()+"\n"); err != nil {
		return fmt.Errorf("write rendering: %w", err)
	}
	if err := ed.SaveDocument(); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	logger.Info("Document saved",
		slog.String("name", name),
		slog.String("driver", app.config.Storage.Driver),
		slog.Int("elements", len(m.Elements)))
	return nil
}

// RunDemo builds the sample document twice, once per console target, and
// saves each rendering to out.
func RunDemo(out io.Writer) error {
	console := storage.NewWriter(out)
	for _, target := range []string{"file", "database"} {
		ed := editor.New(document.New(), console.Scope(target))
		ed.AddText("Hello, world!")
		ed.AddNewLine()
		ed.AddText("SOLID principles in action")
		ed.AddNewLine()
		ed.AddTabSpace()
		ed.AddText("Clean architecture")
		ed.AddNewLine()
		ed.AddImage("image.png")
		if err := ed.SaveDocument(); err != nil {
			return err
		}
	}
	return nil
}
