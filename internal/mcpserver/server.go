// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes document editing tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/scrivener/internal/compose"
	"github.com/starford/scrivener/internal/editor"
	"github.com/starford/scrivener/internal/element"
	"github.com/starford/scrivener/internal/session"
)

const manifestURI = "scrivener://manifest-format"

// Server wraps the MCP server with document tools.
type Server struct {
	mcp *server.MCPServer
	svc *session.Service
}

// New creates a new MCP server with all document tools registered.
func New(svc *session.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Scrivener",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Start a new empty document and return its ID."),
	), s.createDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List live documents with their element and save counts."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("add_element",
		mcp.WithDescription("Append one element to a document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Element kind"),
			mcp.Enum("text", "image", "newline", "tab")),
		mcp.WithString("value", mcp.Description("Text content or image path; ignored for newline and tab")),
	), s.addElement)

	s.mcp.AddTool(mcp.NewTool("compose_document",
		mcp.WithDescription("Append every element of a YAML manifest to a document. "+
			"Read the format via the scrivener://manifest-format resource first."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID")),
		mcp.WithString("manifest", mcp.Required(), mcp.Description("YAML manifest")),
	), s.composeDocument)

	s.mcp.AddTool(mcp.NewTool("render_document",
		mcp.WithDescription("Return the document rendered as plain text."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID")),
	), s.renderDocument)

	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Persist the document's rendering through the configured storage backend."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID")),
	), s.saveDocument)

	s.mcp.AddResource(
		mcp.NewResource(manifestURI, "Document Manifest Format",
			mcp.WithResourceDescription("YAML manifest format accepted by compose_document."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readManifestFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createDocument(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Create(ctx))
}

func (s *Server) listDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.List(ctx))
}

func (s *Server) addElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kindArg, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := element.ParseKind(kindArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value := req.GetString("value", "")

	info, err := s.svc.Add(ctx, id, kind, value)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(info)
}

func (s *Server) composeDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("manifest")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := compose.Parse([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Editor(ctx, id, func(ed *editor.Editor) error { return m.Apply(ed) }); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("appended %d elements to %s", len(m.Elements), id)), nil
}

func (s *Server) renderDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.svc.Render(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) saveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Save(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) readManifestFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      manifestURI,
			MIMEType: "text/markdown",
			Text:     ManifestFormatContract,
		},
	}, nil
}
