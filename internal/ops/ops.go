// Package ops implements the document operations shared by the CLI, the
// MCP server, and the web API. Each operation takes an Input struct and
// returns an Output struct so every surface serializes the same shapes.
package ops

// List pagination bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination describes a page of list results.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}
