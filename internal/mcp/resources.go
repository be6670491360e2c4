package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── boardkit://board ───────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"boardkit://board",
		"Open Board Document",
		mcp.WithMIMEType("application/json"),
	), s.handleBoardResource)

	// ── boardkit://boards ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"boardkit://boards",
		"Vault Board Index",
		mcp.WithMIMEType("application/json"),
	), s.handleBoardsResource)
}

func (s *Server) handleBoardResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := s.app.DocumentJSON()
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "boardkit://board",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleBoardsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	boards, err := s.app.ListBoards()
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(boards, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "boardkit://boards",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
