package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSharingTools() {
	// ── list_contracts ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_contracts",
		mcp.WithDescription("List the registered data contracts modules can share"),
	), s.handleListContracts)

	// ── list_providers ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_providers",
		mcp.WithDescription("List the widgets on the open board that can provide a contract"),
		mcp.WithString("contractId", mcp.Description("Contract ID, e.g. boardkit.todo.v1"), mcp.Required()),
	), s.handleListProviders)

	// ── connect_widgets ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("connect_widgets",
		mcp.WithDescription("Grant a consumer widget read access to a provider widget's contract. Single-select consumers drop their previous source."),
		mcp.WithString("consumerWidgetId", mcp.Description("Consumer widget ID"), mcp.Required()),
		mcp.WithString("providerWidgetId", mcp.Description("Provider widget ID"), mcp.Required()),
		mcp.WithString("contractId", mcp.Description("Contract ID"), mcp.Required()),
	), s.handleConnectWidgets)

	// ── disconnect_widgets ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("disconnect_widgets",
		mcp.WithDescription("Revoke a consumer widget's access to a provider widget's contract"),
		mcp.WithString("consumerWidgetId", mcp.Description("Consumer widget ID"), mcp.Required()),
		mcp.WithString("providerWidgetId", mcp.Description("Provider widget ID"), mcp.Required()),
		mcp.WithString("contractId", mcp.Description("Contract ID"), mcp.Required()),
	), s.handleDisconnectWidgets)

	// ── connection_status ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("connection_status",
		mcp.WithDescription("Report whether a consumer/provider/contract triple is connected, disconnected, or broken (provider gone)"),
		mcp.WithString("consumerWidgetId", mcp.Description("Consumer widget ID"), mcp.Required()),
		mcp.WithString("providerWidgetId", mcp.Description("Provider widget ID"), mcp.Required()),
		mcp.WithString("contractId", mcp.Description("Contract ID"), mcp.Required()),
	), s.handleConnectionStatus)

	// ── get_shared_data ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_shared_data",
		mcp.WithDescription("Read the most recent payload a provider widget published under a contract"),
		mcp.WithString("providerWidgetId", mcp.Description("Provider widget ID"), mcp.Required()),
		mcp.WithString("contractId", mcp.Description("Contract ID"), mcp.Required()),
	), s.handleGetSharedData)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListContracts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.app.Contracts())
}

func (s *Server) handleListProviders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contractID, err := stringArg(req.GetArguments(), "contractId")
	if err != nil {
		return nil, err
	}
	widgets, err := s.app.AvailableProviders(contractID)
	if err != nil {
		return nil, err
	}
	return jsonResult(widgets)
}

func tripleArgs(args map[string]any) (consumer, provider, contract string, err error) {
	if consumer, err = stringArg(args, "consumerWidgetId"); err != nil {
		return
	}
	if provider, err = stringArg(args, "providerWidgetId"); err != nil {
		return
	}
	contract, err = stringArg(args, "contractId")
	return
}

func (s *Server) handleConnectWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	consumer, provider, contract, err := tripleArgs(req.GetArguments())
	if err != nil {
		return nil, err
	}
	perm, err := s.app.Connect(consumer, provider, contract)
	if err != nil {
		return nil, err
	}
	return jsonResult(perm)
}

func (s *Server) handleDisconnectWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	consumer, provider, contract, err := tripleArgs(req.GetArguments())
	if err != nil {
		return nil, err
	}
	removed, err := s.app.Disconnect(consumer, provider, contract)
	if err != nil {
		return nil, err
	}
	if !removed {
		return textResult("No grant existed for that triple"), nil
	}
	return textResult("Disconnected"), nil
}

func (s *Server) handleConnectionStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	consumer, provider, contract, err := tripleArgs(req.GetArguments())
	if err != nil {
		return nil, err
	}
	status, err := s.app.ConnectionStatus(consumer, provider, contract)
	if err != nil {
		return nil, err
	}
	return textResult(string(status)), nil
}

func (s *Server) handleGetSharedData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	provider, err := stringArg(args, "providerWidgetId")
	if err != nil {
		return nil, err
	}
	contract, err := stringArg(args, "contractId")
	if err != nil {
		return nil, err
	}
	data, ok := s.app.LatestData(provider, contract)
	if !ok {
		return nil, fmt.Errorf("no data published by %s under %s", provider, contract)
	}
	return jsonResult(data)
}
