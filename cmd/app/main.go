package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/mcpserver"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

// defaultConfigFile is loaded when the path from --config does not exist.
const defaultConfigFile = "config/config.yaml"

// withApp loads the configuration, builds the application, and hands it to fn.
func withApp(fn func(ctx context.Context, app *internal.App, cmd *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		if err := pkgconfig.LoadWithDefaults(configPath, defaultConfigFile, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		app, err := internal.NewApp(internal.WithConfig(cfg))
		if err != nil {
			return fmt.Errorf("app init error: %w", err)
		}
		return fn(ctx, app, cmd)
	}
}

func requireDoc(cmd *cli.Command) (string, error) {
	path := cmd.Args().First()
	if path == "" {
		return "", fmt.Errorf("a document path is required")
	}
	return path, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Sync Markdown posts between a local workspace and a Halo site",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (falls back to config/config.yaml)",
				DefaultText: "ansuz.yaml",
				Value:       "ansuz.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "publish",
				Usage:     "Publish a document, creating the remote post on first publish",
				ArgsUsage: "<document.md>",
				Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
					path, err := requireDoc(cmd)
					if err != nil {
						return err
					}
					result, err := app.Service.Publish(ctx, path)
					if err != nil {
						return err
					}
					fmt.Printf("published %q as %s\n", result.Title, result.ID)
					if result.Permalink != "" {
						fmt.Printf("open in browser: %s\n", result.Permalink)
					}
					return nil
				}),
			},
			{
				Name:      "update",
				Usage:     "Refresh a document's front matter and body from its remote post",
				ArgsUsage: "<document.md>",
				Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
					path, err := requireDoc(cmd)
					if err != nil {
						return err
					}
					if err := app.Service.Update(ctx, path); err != nil {
						return err
					}
					fmt.Printf("updated %s\n", path)
					return nil
				}),
			},
			{
				Name:      "pull",
				Usage:     "Fetch a remote post into a new local file",
				ArgsUsage: "<post-id>",
				Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("a post id is required (see the posts command)")
					}
					path, err := app.Service.Pull(ctx, id)
					if err != nil {
						return err
					}
					fmt.Printf("pulled to %s\n", path)
					return nil
				}),
			},
			{
				Name:      "upload-images",
				Usage:     "Upload local images referenced by a document and rewrite the references",
				ArgsUsage: "<document.md>",
				Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
					path, err := requireDoc(cmd)
					if err != nil {
						return err
					}
					count, err := app.Service.UploadImages(ctx, path)
					if err != nil {
						return err
					}
					fmt.Printf("uploaded %d images\n", count)
					return nil
				}),
			},
			{
				Name:  "posts",
				Usage: "List the remote posts of the configured site",
				Action: withApp(func(ctx context.Context, app *internal.App, _ *cli.Command) error {
					posts, err := app.Service.ListPosts(ctx)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tTITLE\tSLUG\tPUBLISHED")
					for _, p := range posts {
						fmt.Fprintf(w, "%s\t%s\t%s\t%v\n",
							p.Post.Metadata.Name, p.Post.Spec.Title, p.Post.Spec.Slug, p.Post.Spec.Publish)
					}
					return w.Flush()
				}),
			},
			{
				Name:      "watch",
				Usage:     "Republish a document every time it is saved",
				ArgsUsage: "<document.md>",
				Action: withApp(func(ctx context.Context, app *internal.App, cmd *cli.Command) error {
					path, err := requireDoc(cmd)
					if err != nil {
						return err
					}
					return app.Watch(ctx, path)
				}),
			},
			{
				Name:  "mcp",
				Usage: "Serve the sync operations as MCP tools over stdio",
				Action: withApp(func(_ context.Context, app *internal.App, _ *cli.Command) error {
					return mcpserver.New(app.Service).ServeStdio()
				}),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
