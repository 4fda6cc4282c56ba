package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/avisser/redline/internal/assets"
	"github.com/avisser/redline/internal/config"
	"github.com/avisser/redline/internal/errors"
	"github.com/avisser/redline/internal/gateway"
	"github.com/avisser/redline/internal/ops"
	"github.com/avisser/redline/internal/session"
	"github.com/avisser/redline/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, logger *zap.Logger) *cli.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &cli.App{
		Name:    "redline",
		Usage:   "AI-assisted article editing backend",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(db, cfg, logger),
			storeCmd(db, cfg),
			fetchCmd(db),
			saveCmd(db, cfg),
			deleteCmd(db),
			listCmd(db),
			purgeCmd(db),
			transformCmd(cfg, logger),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the editor HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 7340, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			store, err := assets.NewStore(filepath.Join(homeDir, ".redline"), cfg.AllowedImageExts)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			client := optionalClient(cfg, logger)
			sessions := session.NewManager(db, cfg, client, logger)

			srv := web.NewServer(db, cfg, sessions, store, Version, c.String("bind"), c.Int("port"), logger)
			return web.Run(srv, sessions, logger)
		},
	}
}

// storeCmd creates the store command.
func storeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Create a new document (reads content from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Article title"},
			&cli.BoolFlag{Name: "published", Usage: "Mark as published (default: draft)"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("content must be piped via stdin"))
			}

			content, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.Store(db, cfg, ops.StoreInput{
				Title:     c.String("title"),
				Content:   content,
				Published: c.Bool("published"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a document by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted documents"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(db, ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// saveCmd creates the save command.
func saveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Overwrite a document's title and content (reads content from stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Article title"},
			&cli.BoolFlag{Name: "published", Usage: "Set the published flag"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("content must be piped via stdin"))
			}

			content, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			input := ops.SaveInput{
				ID:      c.Args().First(),
				Title:   c.String("title"),
				Content: content,
			}
			if c.IsSet("published") {
				published := c.Bool("published")
				input.Published = &published
			}

			output, err := ops.Save(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a document",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List documents, most recently updated first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted documents"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "Permanently delete a document and its conversation log",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "confirm", Usage: "Required; purge is irreversible"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("confirm") {
				return outputError(errors.NewInvalidRequest("pass --confirm to purge"))
			}

			output, err := ops.Purge(db, ops.PurgeInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// transformCmd creates the transform command.
func transformCmd(cfg *config.Config, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "transform",
		Usage: "Run an AI text action over stdin text",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: "improve", Usage: "Action: improve|expand|summarize|fix_grammar|custom"},
			&cli.StringFlag{Name: "instruction", Aliases: []string{"i"}, Usage: "Instruction for the custom action"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Document title for context"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("text must be piped via stdin"))
			}

			text, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			client, err := gateway.NewOpenAIClient(cfg, logger)
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			result, err := client.Transform(context.Background(), gateway.Request{
				Kind:          gateway.ActionKind(c.String("kind")),
				Text:          text,
				Instruction:   c.String("instruction"),
				DocumentTitle: c.String("title"),
			})
			if err != nil {
				return outputError(errors.NewGatewayFailed(err))
			}

			return outputJSON(map[string]any{
				"type": string(result.Type),
				"text": result.Text,
			})
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if rErr, ok := err.(*errors.RedlineError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, rErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
