package mcp

import "github.com/mark3labs/mcp-go/mcp"

var storeToolDef = mcp.NewTool("document_store",
	mcp.WithDescription("Create a new article document."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Article title.")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Markdown body.")),
	mcp.WithBoolean("published", mcp.Description("Mark the article as published (default: draft).")),
)

var fetchToolDef = mcp.NewTool("document_fetch",
	mcp.WithDescription("Retrieve a document by ID, including its content."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Document ULID.")),
	mcp.WithBoolean("include_deleted", mcp.Description("Allow fetching soft-deleted documents.")),
)

var listToolDef = mcp.NewTool("document_list",
	mcp.WithDescription("List document summaries, most recently updated first."),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Page offset.")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted documents.")),
)

var saveToolDef = mcp.NewTool("document_save",
	mcp.WithDescription("Overwrite an existing document's title and content."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Document ULID.")),
	mcp.WithString("title", mcp.Required(), mcp.Description("Article title.")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Markdown body.")),
	mcp.WithBoolean("published", mcp.Description("Set the published flag; omit to leave unchanged.")),
)

var deleteToolDef = mcp.NewTool("document_delete",
	mcp.WithDescription("Soft-delete a document. The conversation log is retained."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Document ULID.")),
)

var purgeToolDef = mcp.NewTool("document_purge",
	mcp.WithDescription("Permanently remove a document and its conversation log. Irreversible."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Document ULID.")),
	mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to proceed.")),
)

var transformToolDef = mcp.NewTool("text_transform",
	mcp.WithDescription("Run an AI text action (improve, expand, summarize, fix_grammar, custom) over the given text. Stateless: no document or session is touched."),
	mcp.WithString("kind", mcp.Required(), mcp.Description("Action kind: improve, expand, summarize, fix_grammar, or custom.")),
	mcp.WithString("text", mcp.Required(), mcp.Description("The text to transform.")),
	mcp.WithString("instruction", mcp.Description("Required when kind is custom.")),
	mcp.WithString("document_title", mcp.Description("Optional title for context.")),
	mcp.WithBoolean("is_partial", mcp.Description("True when text is a selection rather than a whole document.")),
)
