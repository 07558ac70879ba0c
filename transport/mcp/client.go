package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "Klondike Solitaire"
	serverVersion = "1.0.0"
	apiTimeout    = 10 * time.Second
)

// Client exposes the Klondike REST API as MCP tools. Every tool call is
// forwarded to the API server at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates an MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: apiTimeout},
	}
	c.mcpServer = server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(overview),
	)
	c.registerTools()
	return c
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiError is a non-2xx reply from the REST API
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error: %d", e.Status)
}

// apiCall sends body as JSON and decodes the reply into result when non-nil
func (c *Client) apiCall(ctx context.Context, method, path string, body, result interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var reply struct {
			Error string `json:"error"`
		}
		// non-JSON error bodies leave Message empty
		_ = json.NewDecoder(resp.Body).Decode(&reply)
		return &apiError{Status: resp.StatusCode, Message: reply.Error}
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

const overview = `Klondike Solitaire - MCP Interface

Every tool forwards to the Klondike REST API server.

OBJECTIVE:
Move all 52 cards onto the four foundations, each built by suit from Ace to King.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage tables
- game_state: show the board
- draw: turn the next stock card onto the waste (recycles the waste when the stock is empty)
- pick: pick a face-up card; a second pick on another pile moves the selection there
- pick_empty: drop the selection on an empty tableau column or foundation
- deselect: clear the selection
- new_game: shuffle and deal again
- move_history: list past actions
- list_configs: list table configurations
- game_instructions: full rules and pile naming`
