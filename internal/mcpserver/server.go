// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the sync operations as tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/postservice"
)

// Server wraps the MCP server with sync tools.
type Server struct {
	mcp *server.MCPServer
	svc *postservice.Service
}

// New creates a new MCP server with all sync tools registered.
func New(svc *postservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("publish_post",
		mcp.WithDescription("Publish a local Markdown document to the configured site, "+
			"creating the remote post on first publish and updating it afterwards."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Workspace-relative path to the document (e.g. posts/hello.md)")),
	), s.publishPost)

	s.mcp.AddTool(mcp.NewTool("update_post",
		mcp.WithDescription("Refresh a document's front matter and body from the remote post it is linked to."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Workspace-relative path to the document")),
	), s.updatePost)

	s.mcp.AddTool(mcp.NewTool("pull_post",
		mcp.WithDescription("Fetch a remote post into a new local file named after its title."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Remote post id")),
	), s.pullPost)

	s.mcp.AddTool(mcp.NewTool("upload_images",
		mcp.WithDescription("Upload every local image referenced by the document and rewrite the references to permalinks."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Workspace-relative path to the document")),
	), s.uploadImages)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List the remote posts of the configured site."),
	), s.listPosts)

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

func (s *Server) publishPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.svc.Publish(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) updatePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Update(ctx, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated %s from remote", path)), nil
}

func (s *Server) pullPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := s.svc.Pull(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("pulled post %s to %s", id, path)), nil
}

func (s *Server) uploadImages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	count, err := s.svc.UploadImages(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("uploaded %d images from %s", count, path)), nil
}

func (s *Server) listPosts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	posts, err := s.svc.ListPosts(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	type item struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Slug      string `json:"slug"`
		Published bool   `json:"published"`
	}
	items := make([]item, 0, len(posts))
	for _, p := range posts {
		items = append(items, item{
			ID:        p.Post.Metadata.Name,
			Title:     p.Post.Spec.Title,
			Slug:      p.Post.Spec.Slug,
			Published: p.Post.Spec.Publish,
		})
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
