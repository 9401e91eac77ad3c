package librarian

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/starford/ansuz/internal/covers"
	"github.com/starford/ansuz/internal/id"
	"github.com/starford/ansuz/internal/models"
)

// DefaultModel is used when the config does not name one.
const DefaultModel = "gemini-2.5-flash"

// Gemini implements Gateway over the Google GenAI API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGemini creates a Gemini-backed gateway.
func NewGemini(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("librarian: API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("librarian: create client: %w", err)
	}

	return &Gemini{client: client, model: model, logger: logger}, nil
}

// Summarize asks for a concise summary. Failures are logged and absorbed
// into the fallback string so the caller always has text to render.
func (g *Gemini) Summarize(ctx context.Context, title, author string) string {
	prompt := fmt.Sprintf(
		"Provide a concise, engaging summary (around 100-150 words) for the book %q by %s.",
		title, author)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.7),
			TopP:        genai.Ptr[float32](0.95),
		})
	if err != nil {
		g.logger.Error("librarian: summary generation failed",
			slog.String("title", title),
			slog.String("error", err.Error()))
		return SummaryFallback
	}
	text := resp.Text()
	if text == "" {
		return SummaryFallback
	}
	return text
}

// Similar asks for three comparable books as newline-separated
// "Title | Author" lines. Failures settle to the single-element fallback.
func (g *Gemini) Similar(ctx context.Context, title, author string) []string {
	prompt := fmt.Sprintf(
		"List 3 books that are similar to %q by %s. For each book, provide the "+
			"title and author, separated by a pipe (|). For example: "+
			"\"Book Title A | Author A\". Separate each entry with a newline.",
		title, author)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.8),
		})
	if err != nil {
		g.logger.Error("librarian: similar-books generation failed",
			slog.String("title", title),
			slog.String("error", err.Error()))
		return []string{SimilarFallback}
	}
	entries := parseSimilar(resp.Text())
	if len(entries) == 0 {
		return []string{SimilarFallback}
	}
	return entries
}

// bookSchema constrains whole-book generation to the record shape.
var bookSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":         {Type: genai.TypeString},
		"author":        {Type: genai.TypeString},
		"isbn":          {Type: genai.TypeString, Description: "A plausible 13-digit ISBN."},
		"description":   {Type: genai.TypeString},
		"category":      {Type: genai.TypeString},
		"publishedDate": {Type: genai.TypeString, Description: "Format: YYYY-MM-DD"},
		"tags":          {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"title", "author", "isbn", "description", "category", "publishedDate", "tags"},
}

// Compose generates a complete book record from a free-text prompt. The
// model's JSON output is validated before a record is assembled; malformed
// output is rejected rather than persisted partially formed.
func (g *Gemini) Compose(ctx context.Context, prompt string) (*models.Book, error) {
	contents := genai.Text(fmt.Sprintf(
		"Based on the following prompt, create a fictional book entry. Prompt: %q. "+
			"Generate a plausible title, author, ISBN-13, a compelling description "+
			"(around 50-70 words), a primary category, a publication date (YYYY-MM-DD), "+
			"and 3 relevant tags. The ISBN should be a valid-looking 13-digit number.",
		prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents,
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   bookSchema,
		})
	if err != nil {
		g.logger.Error("librarian: book generation failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	gen, err := decodeGeneratedBook(resp.Text())
	if err != nil {
		g.logger.Error("librarian: book generation returned malformed record",
			slog.String("error", err.Error()))
		return nil, err
	}

	return &models.Book{
		ID:            id.MustNew(id.BookPrefix),
		Title:         gen.Title,
		Author:        gen.Author,
		ISBN:          gen.ISBN,
		Description:   gen.Description,
		Category:      gen.Category,
		PublishedDate: gen.PublishedDate,
		CoverImageURL: covers.PlaceholderURL(gen.Title),
		Tags:          gen.Tags,
	}, nil
}
