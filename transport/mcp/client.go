package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/lifegame/game/engine"
	"github.com/wricardo/mcp-training/lifegame/game/service"
)

// ServerName and ServerVersion identify the MCP server to clients.
const (
	ServerName    = "Game of Life"
	ServerVersion = "1.0.0"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Conway's Game of Life - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Boards are finite grids; cells outside the grid count as dead. Grids are shown
as text rows where O is a live cell and . is a dead one.

AVAILABLE TOOLS:
- create_board: Create a board from layout rows or a named pattern
- get_board: Show a board without advancing it
- list_boards: List all boards
- next_generation: Advance a board by one generation
- advance_generations: Advance a board by N generations
- final_state: Advance until a state repeats (fixed point or oscillation), at most 1000 generations
- list_patterns: List named starting patterns
- game_rules: Explain the rules`),
	)

	c.registerTools()
}

func boardIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Board ID returned by create_board",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_board",
		Description: "Create a new board from layout rows (O = live, . = dead) or from a named pattern",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"layout": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Grid rows, all the same length, e.g. [\".....\", \".OOO.\", \".....\"]",
				},
				"pattern": map[string]interface{}{
					"type":        "string",
					"description": "Name of a pattern from list_patterns (used when layout is empty)",
				},
			},
		},
	}, c.handleCreateBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_board",
		Description: "Get the current state of a board without advancing it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"board_id": boardIDProperty()},
			Required:   []string{"board_id"},
		},
	}, c.handleGetBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_boards",
		Description: "List all boards",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListBoards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_generation",
		Description: "Advance a board by one generation and store the result",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"board_id": boardIDProperty()},
			Required:   []string{"board_id"},
		},
	}, c.handleNextGeneration)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance_generations",
		Description: "Advance a board by a number of generations and store the result",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"board_id": boardIDProperty(),
				"generations": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"description": "Number of generations to advance (at least 1)",
				},
			},
			Required: []string{"board_id", "generations"},
		},
	}, c.handleAdvanceGenerations)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "final_state",
		Description: "Advance a board until it repeats a state (still life or oscillator), up to 1000 generations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"board_id": boardIDProperty()},
			Required:   []string{"board_id"},
		},
	}, c.handleFinalState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_patterns",
		Description: "List named starting patterns",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPatterns)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Explain the Game of Life rules used by this server",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HandleHTTP serves single JSON-RPC messages posted to /mcp
func (c *Client) HandleHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := c.mcpServer.HandleMessage(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	if response == nil {
		// Notifications have no response
		w.WriteHeader(http.StatusAccepted)
		return
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Write(responseData)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func boardPath(boardID, suffix string) string {
	return "/api/boards/" + url.PathEscape(boardID) + suffix
}

// Tool handlers

func (c *Client) handleCreateBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	patternName, _ := args["pattern"].(string)
	layoutRaw, _ := args["layout"].([]interface{})

	body := map[string]interface{}{}
	switch {
	case len(layoutRaw) > 0:
		layout := make([]string, 0, len(layoutRaw))
		for _, row := range layoutRaw {
			s, ok := row.(string)
			if !ok {
				return mcp.NewToolResultError("layout rows must be strings"), nil
			}
			layout = append(layout, s)
		}
		grid, err := engine.ParseLayout(layout)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body["grid"] = grid.Cells()
	case patternName != "":
		body["pattern"] = patternName
	default:
		return mcp.NewToolResultError("either layout or pattern is required"), nil
	}

	var board service.BoardInfo
	if err := c.apiCall(ctx, "POST", "/api/boards", body, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created board\n" + formatBoard(&board)), nil
}

func (c *Client) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, _ := arguments(request)["board_id"].(string)
	if boardID == "" {
		return mcp.NewToolResultError("board_id is required"), nil
	}

	var board service.BoardInfo
	if err := c.apiCall(ctx, "GET", boardPath(boardID, ""), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handleListBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count  int                 `json:"count"`
		Boards []service.BoardInfo `json:"boards"`
	}

	if err := c.apiCall(ctx, "GET", "/api/boards", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Boards (%d):\n\n", response.Count)
	for _, board := range response.Boards {
		fmt.Fprintf(&b, "- %s (%dx%d, generation %d, %d live, created %s)\n",
			board.ID, board.Rows, board.Columns, board.Generation, board.LiveCells, board.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleNextGeneration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, _ := arguments(request)["board_id"].(string)
	if boardID == "" {
		return mcp.NewToolResultError("board_id is required"), nil
	}

	var board service.BoardInfo
	if err := c.apiCall(ctx, "GET", boardPath(boardID, "/next"), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handleAdvanceGenerations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	boardID, _ := args["board_id"].(string)
	if boardID == "" {
		return mcp.NewToolResultError("board_id is required"), nil
	}

	generations, ok := args["generations"].(float64)
	if !ok {
		return mcp.NewToolResultError("generations must be an integer"), nil
	}
	if generations != float64(int(generations)) {
		return mcp.NewToolResultError(fmt.Sprintf("generations must be an integer, got %v", generations)), nil
	}

	var board service.BoardInfo
	path := boardPath(boardID, fmt.Sprintf("/generations/%d", int(generations)))
	if err := c.apiCall(ctx, "GET", path, nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handleFinalState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID, _ := arguments(request)["board_id"].(string)
	if boardID == "" {
		return mcp.NewToolResultError("board_id is required"), nil
	}

	var board service.BoardInfo
	if err := c.apiCall(ctx, "GET", boardPath(boardID, "/final"), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handleListPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var list []service.PatternInfo
	if err := c.apiCall(ctx, "GET", "/api/patterns", nil, &list); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Patterns:\n\n")
	for _, p := range list {
		fmt.Fprintf(&b, "• %s (%s)\n", p.PatternID, p.Name)
		if p.Description != "" {
			fmt.Fprintf(&b, "  %s\n", p.Description)
		}
		fmt.Fprintf(&b, "  Size: %dx%d", p.Rows, p.Columns)
		if p.Period > 0 {
			fmt.Fprintf(&b, ", Period: %d", p.Period)
		}
		b.WriteString("\n\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := fmt.Sprintf(`Conway's Game of Life

GRID:
• A board is a finite grid of cells, each live (O) or dead (.)
• Each cell has up to 8 neighbors; cells beyond the edge count as dead (no wraparound)

RULES (applied to every cell at once):
• A live cell with 2 or 3 live neighbors stays alive
• A dead cell with exactly 3 live neighbors becomes alive
• Every other cell is dead in the next generation

FINAL STATE:
final_state advances the board until it produces a configuration already seen
during the same call. That repeated configuration is returned and stored:
• period 1 means a fixed point (still life or an empty board)
• period > 1 means an oscillator
If no state repeats within %d generations the board is left unchanged and an
error is returned.

TIPS:
• Use list_patterns for ready-made starting boards
• Board IDs stay the same across advances`, engine.MaxFinalStateIterations)

	return mcp.NewToolResultText(rules), nil
}

// Formatting helpers

func formatBoard(board *service.BoardInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Board: %s\n", board.ID)
	fmt.Fprintf(&b, "Generation: %d | Size: %dx%d | Live cells: %d\n",
		board.Generation, board.Rows, board.Columns, board.LiveCells)

	if cycle := board.Cycle; cycle != nil {
		if cycle.FixedPoint {
			fmt.Fprintf(&b, "Final state: fixed point after %d generations\n", cycle.Transitions)
		} else {
			fmt.Fprintf(&b, "Final state: period %d oscillation, repeated after %d generations\n",
				cycle.Period, cycle.Transitions)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGrid(board.Grid))
	return b.String()
}

func formatGrid(cells engine.Cells) string {
	grid, err := cells.Grid()
	if err != nil {
		return fmt.Sprintf("(invalid grid: %v)\n", err)
	}
	return strings.Join(engine.FormatLayout(grid), "\n") + "\n"
}
