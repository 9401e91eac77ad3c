package mcpserver

// BookFormatContract describes the canonical book record shape that
// LLM consumers should follow when creating catalog entries.
const BookFormatContract = `# Ansuz Book Record Contract

Every book record stored in Ansuz MUST follow this shape.

## Fields

` + "```" + `json
{
  "id": "book-V1StGXR8Z5jdHi6BmyT",
  "title": "The Martian",
  "author": "Andy Weir",
  "isbn": "9780804139021",
  "description": "An astronaut stranded on Mars fights to survive.",
  "category": "Science Fiction",
  "publishedDate": "2014-02-11",
  "coverImageUrl": "https://picsum.photos/seed/The%20Martian/400/600",
  "tags": ["survival", "space"]
}
` + "```" + `

## Rules

1. **` + "`" + `id` + "`" + ` is server-assigned.** Never supply one when creating a record.
2. **All text fields are required**: title, author, isbn, description,
   category, publishedDate.
3. **` + "`" + `isbn` + "`" + `** is an ISBN-13: exactly 13 digits, no hyphens.
4. **` + "`" + `publishedDate` + "`" + `** is an ISO-8601 calendar date (YYYY-MM-DD).
5. **` + "`" + `category` + "`" + `** is a single human-readable name (e.g. ` + "`" + `Science Fiction` + "`" + `,
   ` + "`" + `Classics` + "`" + `). Never use the reserved value ` + "`" + `All` + "`" + ` — it is the
   catalog-wide filter sentinel, not a category.
6. **` + "`" + `tags` + "`" + `** are optional, lowercase, short phrases. Via the
   ` + "`" + `create_book` + "`" + ` tool they are passed as one comma-delimited string
   (` + "`" + `"survival, space"` + "`" + `).
7. **` + "`" + `coverImageUrl` + "`" + `** is server-assigned from the title. Never supply one.

## Tools

- ` + "`" + `create_book` + "`" + ` adds a record from explicit field values.
- ` + "`" + `generate_book` + "`" + ` invents a complete fictional record from a free-text
  prompt and adds it to the catalog.
- ` + "`" + `summarize_book` + "`" + ` and ` + "`" + `similar_books` + "`" + ` work on existing records by id.
`
