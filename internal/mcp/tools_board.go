package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerBoardTools() {
	// ── list_boards ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_boards",
		mcp.WithDescription("List the boards in the vault, most recently opened first"),
	), s.handleListBoards)

	// ── new_board ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("new_board",
		mcp.WithDescription("Create a new board in the vault and open it"),
		mcp.WithString("title", mcp.Description("Board title"), mcp.Required()),
		mcp.WithString("name", mcp.Description("File name inside the vault (without extension)"), mcp.Required()),
	), s.handleNewBoard)

	// ── open_board ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_board",
		mcp.WithDescription("Open a .boardkit file. Older documents are migrated to the current version on load."),
		mcp.WithString("path", mcp.Description("Path to the .boardkit file"), mcp.Required()),
	), s.handleOpenBoard)

	// ── save_board ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_board",
		mcp.WithDescription("Save the open board back to its vault file"),
	), s.handleSaveBoard)

	// ── board_history ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("board_history",
		mcp.WithDescription("List the open board's save-point history, newest first"),
	), s.handleBoardHistory)

	// ── restore_snapshot (destructive) ─────────────────
	s.mcp.AddTool(mcp.NewTool("restore_snapshot",
		mcp.WithDescription("🛑 DESTRUCTIVE: Replace the open board's content with a history snapshot."),
		mcp.WithString("snapshotId", mcp.Description("Snapshot ID from board_history"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRestoreSnapshot)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListBoards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boards, err := s.app.ListBoards()
	if err != nil {
		return nil, err
	}
	return jsonResult(boards)
}

func (s *Server) handleNewBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	title, err := stringArg(args, "title")
	if err != nil {
		return nil, err
	}
	name, err := stringArg(args, "name")
	if err != nil {
		return nil, err
	}

	doc, err := s.app.NewBoard(title, name)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Created and opened board %q (id %s)", title, doc.Meta.ID)), nil
}

func (s *Server) handleOpenBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := stringArg(req.GetArguments(), "path")
	if err != nil {
		return nil, err
	}
	doc, err := s.app.OpenBoard(path)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Opened board %q (id %s, version %d)",
		doc.Meta.Title, doc.Meta.ID, doc.Version)), nil
}

func (s *Server) handleSaveBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.app.SaveBoard(); err != nil {
		return nil, err
	}
	return textResult("Board saved"), nil
}

func (s *Server) handleBoardHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snaps, err := s.app.History()
	if err != nil {
		return nil, err
	}
	return jsonResult(snaps)
}

func (s *Server) handleRestoreSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshotID, err := stringArg(req.GetArguments(), "snapshotId")
	if err != nil {
		return nil, err
	}
	if _, err := s.app.RestoreSnapshot(snapshotID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Restored snapshot %s", snapshotID)), nil
}
