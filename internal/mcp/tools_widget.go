package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerWidgetTools() {
	// ── add_widget ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_widget",
		mcp.WithDescription("Place a widget of a module type on the open board. Size comes from the module's defaults."),
		mcp.WithString("moduleId",
			mcp.Description("Module type: text, todo, counter, habit, taskradar, calendar, datasource"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("X position (default 0)")),
		mcp.WithNumber("y", mcp.Description("Y position (default 0)")),
	), s.handleAddWidget)

	// ── move_widget ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_widget",
		mcp.WithDescription("Move a widget to a new position"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveWidget)

	// ── resize_widget ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_widget",
		mcp.WithDescription("Resize a widget"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeWidget)

	// ── delete_widget (destructive) ────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_widget",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a widget. Its module state, permissions, links, and published data are removed with it."),
		mcp.WithString("widgetId", mcp.Description("Widget ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteWidget)

	// ── get_widget_state ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_widget_state",
		mcp.WithDescription("Read a widget's module state as JSON"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
	), s.handleGetWidgetState)

	// ── set_widget_state ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_widget_state",
		mcp.WithDescription("Replace a widget's module state. Providers republish their shared data afterwards."),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithString("state", mcp.Description("New state as a JSON object"), mcp.Required()),
	), s.handleSetWidgetState)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	moduleID, err := stringArg(args, "moduleId")
	if err != nil {
		return nil, err
	}
	x := numberArg(args, "x", 0)
	y := numberArg(args, "y", 0)

	w, err := s.app.AddWidget(moduleID, x, y)
	if err != nil {
		return nil, err
	}
	return jsonResult(w)
}

func (s *Server) handleMoveWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widgetID, err := stringArg(args, "widgetId")
	if err != nil {
		return nil, err
	}
	if err := s.app.MoveWidget(widgetID, numberArg(args, "x", 0), numberArg(args, "y", 0)); err != nil {
		return nil, err
	}
	return textResult("Widget moved"), nil
}

func (s *Server) handleResizeWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widgetID, err := stringArg(args, "widgetId")
	if err != nil {
		return nil, err
	}
	width := numberArg(args, "width", 0)
	height := numberArg(args, "height", 0)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("width and height must be positive")
	}
	if err := s.app.ResizeWidget(widgetID, width, height); err != nil {
		return nil, err
	}
	return textResult("Widget resized"), nil
}

func (s *Server) handleDeleteWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	widgetID, err := stringArg(req.GetArguments(), "widgetId")
	if err != nil {
		return nil, err
	}
	if err := s.app.DeleteWidget(widgetID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted widget %s", widgetID)), nil
}

func (s *Server) handleGetWidgetState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	widgetID, err := stringArg(req.GetArguments(), "widgetId")
	if err != nil {
		return nil, err
	}
	raw, err := s.app.ModuleStateJSON(widgetID)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return textResult("{}"), nil
	}
	return textResult(string(raw)), nil
}

func (s *Server) handleSetWidgetState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widgetID, err := stringArg(args, "widgetId")
	if err != nil {
		return nil, err
	}
	stateStr, err := stringArg(args, "state")
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(stateStr)) {
		return nil, fmt.Errorf("state is not valid JSON")
	}
	if err := s.app.SetModuleStateJSON(widgetID, json.RawMessage(stateStr)); err != nil {
		return nil, err
	}
	return textResult("Widget state updated"), nil
}
