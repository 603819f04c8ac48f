// Package mcpserver exposes leaderboard reads as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/GTTribe/tribe-ratings/internal/domain/types"
	"github.com/GTTribe/tribe-ratings/pkg/logger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolLeaderboard    = "leaderboard"
	ToolPlayerHistory  = "player_history"
	ToolPracticeDetail = "practice_detail"
)

const defaultToolLimit = 25

// Dependencies are the reads the tools serve.
type Dependencies interface {
	Leaderboard(ctx context.Context, limit int) ([]types.Entry, error)
	Player(ctx context.Context, name string) (types.PlayerDetail, error)
	Practice(ctx context.Context, date string) ([]types.PracticeDetail, error)
}

// LeaderboardArgs are the leaderboard tool arguments.
type LeaderboardArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Number of rows to return (default 25)"`
}

// PlayerHistoryArgs are the player_history tool arguments.
type PlayerHistoryArgs struct {
	Player string `json:"player" jsonschema:"Roster name, matched exactly (required)"`
}

// PracticeDetailArgs are the practice_detail tool arguments.
type PracticeDetailArgs struct {
	Date string `json:"date" jsonschema:"Practice date YYYY-MM-DD (required)"`
}

// Server holds the MCP server and its tool handlers.
type Server struct {
	deps     Dependencies
	maxLimit int
	server   *mcp.Server
	logger   logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxLimit caps the leaderboard tool's limit.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}

// New registers the tools on a fresh MCP server.
func New(deps Dependencies, version string, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		maxLimit: 500,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("mcp")
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "tribe-ratings",
			Version: version,
		},
		nil,
	)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolLeaderboard,
		Description: "Ranked players with reps, scores, shooting percentage and rating",
	}, s.Leaderboard)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolPlayerHistory,
		Description: "One player's leaderboard row and per-practice history, newest first",
	}, s.PlayerHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolPracticeDetail,
		Description: "Team rosters and results for the practices held on a date",
	}, s.PracticeDetail)

	return s
}

// Handler serves the tools over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

// Leaderboard handles the leaderboard tool.
func (s *Server) Leaderboard(ctx context.Context, _ *mcp.CallToolRequest, args LeaderboardArgs) (*mcp.CallToolResult, any, error) {
	limit := args.Limit
	switch {
	case limit <= 0:
		limit = defaultToolLimit
	case limit > s.maxLimit:
		limit = s.maxLimit
	}
	entries, err := s.deps.Leaderboard(ctx, limit)
	return s.result(ctx, ToolLeaderboard, entries, err)
}

// PlayerHistory handles the player_history tool.
func (s *Server) PlayerHistory(ctx context.Context, _ *mcp.CallToolRequest, args PlayerHistoryArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Player) == "" {
		return toolError(errors.New("player is required")), nil, nil
	}
	detail, err := s.deps.Player(ctx, args.Player)
	return s.result(ctx, ToolPlayerHistory, detail, err)
}

// PracticeDetail handles the practice_detail tool.
func (s *Server) PracticeDetail(ctx context.Context, _ *mcp.CallToolRequest, args PracticeDetailArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Date) == "" {
		return toolError(errors.New("date is required")), nil, nil
	}
	details, err := s.deps.Practice(ctx, args.Date)
	return s.result(ctx, ToolPracticeDetail, details, err)
}

func (s *Server) result(ctx context.Context, tool string, v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		s.logger.Debug(ctx, "tool call failed", logger.String("tool", tool), logger.Error(err))
		return toolError(err), nil, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(fmt.Errorf("encode %s result: %w", tool, err)), nil, nil
	}
	return toolJSONBytes(b), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
