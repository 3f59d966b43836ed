package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hackz-rabuka/room-server/game/room"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
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

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Rabuka Room Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Rabuka Room Server - MCP Interface

This is a thin read-only client that proxies all requests to the REST API.

Rooms are game sessions created over WebSocket by the players themselves;
these tools observe them.

AVAILABLE TOOLS:
- list_rooms: List every live room with its status and participant count
- get_result: Get the ordered score table for one room
- server_status: Health check and room count`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all live rooms with status and participant counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_result",
		Description: "Get the ordered score table for a room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_hash": map[string]interface{}{
					"type":        "string",
					"description": "Room hash to look up",
				},
			},
			Required: []string{"room_hash"},
		},
	}, c.handleGetResult)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_status",
		Description: "Get server health and room count",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStatus)
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs one GET against the REST API and decodes the result.
func (c *Client) apiCall(path string, result interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int         `json:"count"`
		Rooms []room.Info `json:"rooms"`
	}

	if err := c.apiCall("/api/rooms", &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Rooms (%d):\n\n", response.Count)
	for _, r := range response.Rooms {
		result += fmt.Sprintf("- %s (status: %s, participants: %d, updated: %s)\n",
			r.RoomHash, r.Status, r.Participants, r.UpdatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	roomHash, _ := args["room_hash"].(string)

	var scores []room.ScoreSlot
	if err := c.apiCall("/result?roomId="+roomHash, &scores); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Scores for room %s:\n\n", roomHash)
	for i, slot := range scores {
		result += fmt.Sprintf("%d. %s: %.2f\n", i+1, slot.ClientID, slot.Value)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleServerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var health struct {
		Status string `json:"status"`
		Rooms  int    `json:"rooms"`
	}

	if err := c.apiCall("/healthz", &health); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(
		fmt.Sprintf("Status: %s\nRooms: %d\n", health.Status, health.Rooms)), nil
}
