package mcp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

const keyDescription = "Foundation suit (hearts, diamonds, clubs, spades) or tableau column 0-6; omit for waste"

// Shared arguments. Each option builds a fresh schema when applied.
var (
	sessionArg = mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID"))
	pileArg    = mcp.WithString("pile", mcp.Required(),
		mcp.Enum("waste", "foundation", "tableau"),
		mcp.Description("Pile that holds the card (or the empty slot)"))
)

func (c *Client) registerTools() {
	tools := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{mcp.NewTool("create_session",
			mcp.WithDescription("Create a new game session with optional config selection"),
			mcp.WithString("config_id", mcp.Description("Config ID from list_configs (optional, defaults to classic)")),
		), c.handleCreateSession},
		{mcp.NewTool("list_sessions", mcp.WithDescription("List all active game sessions")), c.handleListSessions},
		{mcp.NewTool("get_session", mcp.WithDescription("Get details of a specific session"), sessionArg), c.handleGetSession},

		{mcp.NewTool("game_state", mcp.WithDescription("Show the current board"), sessionArg), c.handleGameState},
		{mcp.NewTool("new_game", mcp.WithDescription("Shuffle and deal a new game in the session"), sessionArg), c.handleNewGame},
		{mcp.NewTool("draw", mcp.WithDescription("Draw one card from the stock, or recycle the waste when the stock is empty"), sessionArg), c.handleDraw},
		{mcp.NewTool("deselect", mcp.WithDescription("Clear the current selection"), sessionArg), c.handleDeselect},
		{mcp.NewTool("pick",
			mcp.WithDescription("Pick a face-up card. With no selection this selects it (and every card above it in a tableau column); "+
				"with a selection it moves the selection onto this card's pile. A double pick sends a single card straight to its foundation."),
			sessionArg,
			mcp.WithString("card_id", mcp.Required(), mcp.Description("Card ID such as As, 10d, Qh")),
			pileArg,
			mcp.WithString("key", mcp.Description(keyDescription)),
			mcp.WithString("kind", mcp.Enum("single", "double"), mcp.Description("Pick kind (default single)")),
		), c.handlePick},
		{mcp.NewTool("pick_empty",
			mcp.WithDescription("Drop the selection on an empty tableau column (Kings only) or an empty foundation (Aces only)"),
			sessionArg,
			pileArg,
			mcp.WithString("key", mcp.Required(), mcp.Description(keyDescription)),
		), c.handlePickEmpty},
		{mcp.NewTool("move_history",
			mcp.WithDescription("Get paginated action history for the current deal"),
			sessionArg,
			mcp.WithNumber("page", mcp.Description("Page number (default 1)")),
			mcp.WithNumber("limit", mcp.Description("Entries per page (default 20)")),
			mcp.WithString("order", mcp.Enum("asc", "desc"), mcp.Description("Sort order (default desc)")),
		), c.handleMoveHistory},

		{mcp.NewTool("list_configs", mcp.WithDescription("List available table configurations")), c.handleListConfigs},
		{mcp.NewTool("game_instructions", mcp.WithDescription("Get the rules of Klondike and how piles and cards are named")), c.handleGameInstructions},
	}

	for _, t := range tools {
		c.mcpServer.AddTool(t.tool, t.handler)
	}
}

// sessionPath builds /api/sessions/<id><suffix> from the session_id argument
func sessionPath(request mcp.CallToolRequest, suffix string) (string, error) {
	id := request.GetString("session_id", "")
	if id == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(id) + suffix, nil
}

// fetch GETs or POSTs and decodes into out, turning failures into tool errors
func (c *Client) fetch(ctx context.Context, method, path string, body, out interface{}) *mcp.CallToolResult {
	if err := c.apiCall(ctx, method, path, body, out); err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if id := request.GetString("config_id", ""); id != "" {
		body["config_id"] = id
	}

	var info service.SessionInfo
	if failed := c.fetch(ctx, "POST", "/api/sessions", body, &info); failed != nil {
		return failed, nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		info.ID, info.ConfigName, formatGameState(info.GameState))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var listing struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if failed := c.fetch(ctx, "GET", "/api/sessions", nil, &listing); failed != nil {
		return failed, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", listing.Count)
	for _, s := range listing.Sessions {
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s)", s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
		if st := s.GameState; st != nil {
			fmt.Fprintf(&b, " foundations %d/%d", st.FoundationTotal(), engine.DeckSize)
			if st.Won {
				b.WriteString(" WON")
			}
		}
		b.WriteByte('\n')
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var info service.SessionInfo
	if failed := c.fetch(ctx, "GET", path, nil, &info); failed != nil {
		return failed, nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var state engine.Snapshot
	if failed := c.fetch(ctx, "GET", path, nil, &state); failed != nil {
		return failed, nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

// postAction sends a play call and renders its ActionResult
func (c *Client) postAction(ctx context.Context, request mcp.CallToolRequest, suffix string, body interface{}) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var result service.ActionResult
	if failed := c.fetch(ctx, "POST", path, body, &result); failed != nil {
		return failed, nil
	}
	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postAction(ctx, request, "/new-game", nil)
}

func (c *Client) handleDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postAction(ctx, request, "/draw", nil)
}

func (c *Client) handleDeselect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postAction(ctx, request, "/deselect", nil)
}

func (c *Client) handlePick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postAction(ctx, request, "/pick", map[string]string{
		"card_id": request.GetString("card_id", ""),
		"pile":    request.GetString("pile", ""),
		"key":     request.GetString("key", ""),
		"kind":    request.GetString("kind", ""),
	})
}

func (c *Client) handlePickEmpty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.postAction(ctx, request, "/pick-empty", map[string]string{
		"pile": request.GetString("pile", ""),
		"key":  request.GetString("key", ""),
	})
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		query.Set("order", order)
	}

	suffix := "/history"
	if len(query) > 0 {
		suffix += "?" + query.Encode()
	}
	path, err := sessionPath(request, suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var history service.HistoryResponse
	if failed := c.fetch(ctx, "GET", path, nil, &history); failed != nil {
		return failed, nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if failed := c.fetch(ctx, "GET", "/api/configs", nil, &configs); failed != nil {
		return failed, nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n", cfg.Name, cfg.ConfigID, cfg.Description)
		if cfg.Seeded {
			b.WriteString("  Fixed seed: every new game replays the same deal sequence\n")
		}
		if cfg.WinNotifyDelayMs > 0 {
			fmt.Fprintf(&b, "  Victory announced after %dms\n", cfg.WinNotifyDelayMs)
		}
		b.WriteByte('\n')
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Klondike Solitaire - Complete Instructions

GAME OBJECTIVE:
Build all four foundations by suit from Ace up to King. The game is won when
all 52 cards are on the foundations.

THE TABLE:
• Stock: face-down draw pile. Only its size is shown.
• Waste: cards drawn from the stock, only the top card can be played.
• Foundations: one per suit (hearts, diamonds, clubs, spades).
• Tableau: seven columns 0-6. Column n starts with n+1 cards, only the last face up.

CARD IDS:
Rank then suit letter: A,2..10,J,Q,K and h,d,c,s. Examples: As, 10d, Qh, Kc.

RULES:
• Foundation: an Ace starts an empty foundation; then the next rank of the same suit.
• Tableau: a card goes on the next higher rank of the opposite color
  (red 6 on black 7). Only a King may fill an empty column.
• Runs: picking a face-up tableau card selects it and every card above it;
  the whole run moves together. Only single cards go to a foundation.
• When a move uncovers a face-down tableau card it is turned face up.
• Draw turns one stock card onto the waste. When the stock is empty, draw
  turns the whole waste back over into the stock.

HOW TO PLAY WITH THESE TOOLS:
1. game_state to see the board.
2. pick {card_id, pile, key} to select a card.
3. pick on a card in another pile to move the selection there, or
   pick_empty {pile, key} for an empty column or foundation.
4. pick with kind "double" sends a single card straight to its foundation.
5. A rejected move keeps the selection; deselect clears it.

PILE ADDRESSING:
• pile "waste" takes no key
• pile "foundation" takes key hearts|diamonds|clubs|spades (or h|d|c|s)
• pile "tableau" takes key 0-6

Good luck!`
