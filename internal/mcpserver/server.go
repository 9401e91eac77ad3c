// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Ansuz catalog as tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/models"
)

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *catalog.Service
}

// New creates a new MCP server with all catalog tools registered.
func New(svc *catalog.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_books",
		mcp.WithDescription("List catalog books, optionally filtered by a case-insensitive "+
			"title/author search and an exact category (\"All\" matches everything)."),
		mcp.WithString("query", mcp.Description("Search text matched against title or author")),
		mcp.WithString("category", mcp.Description("Exact category filter (empty or \"All\" for no filter)")),
	), s.listBooks)

	s.mcp.AddTool(mcp.NewTool("get_book",
		mcp.WithDescription("Read a single book record by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Book record id")),
	), s.getBook)

	s.mcp.AddTool(mcp.NewTool("create_book",
		mcp.WithDescription("Add a book record to the catalog. All fields are required except tags. "+
			"Read the record contract first via the get_book_contract tool or the "+
			"ansuz://book-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Book title")),
		mcp.WithString("author", mcp.Required(), mcp.Description("Book author")),
		mcp.WithString("isbn", mcp.Required(), mcp.Description("ISBN-13")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Short description")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Primary category")),
		mcp.WithString("published_date", mcp.Required(), mcp.Description("Publication date, YYYY-MM-DD")),
		mcp.WithString("tags", mcp.Description("Comma-delimited tags, e.g. \"dystopia, classics\"")),
	), s.createBook)

	s.mcp.AddTool(mcp.NewTool("generate_book",
		mcp.WithDescription("Generate a complete fictional book record from a free-text prompt "+
			"and add it to the catalog."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("What kind of book to invent")),
	), s.generateBook)

	s.mcp.AddTool(mcp.NewTool("summarize_book",
		mcp.WithDescription("Generate a short summary for a catalog book."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Book record id")),
	), s.summarizeBook)

	s.mcp.AddTool(mcp.NewTool("similar_books",
		mcp.WithDescription("Suggest books similar to a catalog book, one \"Title | Author\" per line."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Book record id")),
	), s.similarBooks)

	s.mcp.AddTool(mcp.NewTool("get_book_contract",
		mcp.WithDescription("Returns the canonical Ansuz book record contract. "+
			"Call this before creating books to ensure correct field values."),
	), s.getBookContract)

	// Resource: book record contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://book-format", "Book Record Contract",
			mcp.WithResourceDescription("Canonical book record shape and field rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readBookFormatResource,
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

func (s *Server) listBooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	category := req.GetString("category", "")

	listing, err := s.svc.ListBooks(ctx, query, category)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(listing.Books, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getBook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookID, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	book, err := s.svc.GetBook(ctx, bookID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", bookID)), nil
	}
	out, _ := json.MarshalIndent(book, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createBook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	draft := models.BookDraft{Tags: models.SplitTags(req.GetString("tags", ""))}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"title", &draft.Title},
		{"author", &draft.Author},
		{"isbn", &draft.ISBN},
		{"description", &draft.Description},
		{"category", &draft.Category},
		{"published_date", &draft.PublishedDate},
	} {
		v, err := req.RequireString(f.name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*f.dst = v
	}

	book, err := s.svc.CreateBook(ctx, draft)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", book.ID)), nil
}

func (s *Server) generateBook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	book, err := s.svc.GenerateBook(ctx, prompt)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(book, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) summarizeBook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookID, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := s.svc.Summarize(ctx, bookID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", bookID)), nil
	}
	return mcp.NewToolResultText(summary), nil
}

func (s *Server) similarBooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookID, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := s.svc.SimilarBooks(ctx, bookID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", bookID)), nil
	}
	return mcp.NewToolResultText(strings.Join(entries, "\n")), nil
}

func (s *Server) getBookContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(BookFormatContract), nil
}

func (s *Server) readBookFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://book-format",
			MIMEType: "text/markdown",
			Text:     BookFormatContract,
		},
	}, nil
}
