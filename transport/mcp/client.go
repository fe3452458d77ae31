package mcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP surface that proxies to the observer REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates an MCP client that calls the REST API at baseURL.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// GetMCPServer returns the underlying MCP server for mounting on stdio or
// an HTTP endpoint.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Monopoly Companion Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Monopoly Companion Server - MCP Interface

Read-only tools over the live table state. Players connect and act over
the TCP game protocol; these tools observe.

AVAILABLE TOOLS:
- game_state: Full snapshot (board, properties, players, turn)
- list_players: Seated players and whose turn it is
- server_info: Health and session count`),
	)

	c.registerTools()
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the full game state snapshot",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_players",
		Description: "List seated players, the turn pointer, and the game phase",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPlayers)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_info",
		Description: "Get server health and live session count",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerInfo)
}

func (c *Client) handleGameState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.get(ctx, "/api/state")
}

func (c *Client) handleListPlayers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.get(ctx, "/api/players")
}

func (c *Client) handleServerInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.get(ctx, "/api/healthz")
}

// get proxies one GET to the REST API and returns the body as tool output.
func (c *Client) get(ctx context.Context, path string) (*mcp.CallToolResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read API response: %v", err)), nil
	}
	if resp.StatusCode != http.StatusOK {
		return mcp.NewToolResultError(fmt.Sprintf("API returned %d: %s", resp.StatusCode, body)), nil
	}

	return mcp.NewToolResultText(string(body)), nil
}
