package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDataSourceTools() {
	// ── set_datasource_password ────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_datasource_password",
		mcp.WithDescription("Store a datasource widget's database password in the secret store. The password never enters the board file."),
		mcp.WithString("widgetId", mcp.Description("Datasource widget ID"), mcp.Required()),
		mcp.WithString("password", mcp.Description("Password (empty to clear)")),
	), s.handleSetDataSourcePassword)

	// ── refresh_datasource ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("refresh_datasource",
		mcp.WithDescription("Run a datasource widget's query against its database and republish the result table"),
		mcp.WithString("widgetId", mcp.Description("Datasource widget ID"), mcp.Required()),
	), s.handleRefreshDataSource)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleSetDataSourcePassword(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widgetID, err := stringArg(args, "widgetId")
	if err != nil {
		return nil, err
	}
	password, _ := args["password"].(string)
	if err := s.app.SetDataSourcePassword(widgetID, password); err != nil {
		return nil, err
	}
	return textResult("Password stored"), nil
}

func (s *Server) handleRefreshDataSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	widgetID, err := stringArg(req.GetArguments(), "widgetId")
	if err != nil {
		return nil, err
	}
	if err := s.app.RefreshDataSource(widgetID); err != nil {
		return nil, err
	}
	return textResult("Datasource refreshed"), nil
}
