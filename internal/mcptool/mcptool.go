// Package mcptool exposes the consensus pipeline as MCP tools.
//
// Each tool follows the same shape:
// - A struct with its dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/pipeline"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/session"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/symbolic"
)

// Version is reported in the MCP server handshake.
const Version = "0.1.0"

// Processor runs one request through the pipeline.
type Processor interface {
	Process(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// NewServer builds an MCP server with the consensus tools registered.
func NewServer(p Processor, sessions session.Store) *server.MCPServer {
	s := server.NewMCPServer(
		"epistemic-gate",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	ask := NewAskTool(p)
	s.AddTool(ask.Definition(), ask.Handle)
	history := NewHistoryTool(sessions)
	s.AddTool(history.Definition(), history.Handle)
	return s
}

// ─── AskTool ────────────────────────────────────────────────────────────────

// AskTool handles the consensus_ask MCP tool.
type AskTool struct {
	p Processor
}

// NewAskTool creates an AskTool.
func NewAskTool(p Processor) *AskTool {
	return &AskTool{p: p}
}

// Definition returns the MCP tool definition for consensus_ask.
func (t *AskTool) Definition() mcp.Tool {
	return mcp.NewTool("consensus_ask",
		mcp.WithDescription(
			"Ask several models the same question and return a single answer framed by how much "+
				"they agree. The result is JSON with a disposition of proceed, proceed_with_note or clarify.",
		),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("The user question"),
		),
		mcp.WithString("session_id",
			mcp.Description("Conversation identifier (default: mcp)"),
		),
		mcp.WithString("mode",
			mcp.Description("Symbolic mode: adaptive, daemon, build or analyze"),
		),
		mcp.WithString("tone",
			mcp.Description("Tone hint, e.g. analytical or protective"),
		),
	)
}

type askResult struct {
	RequestID         string  `json:"request_id"`
	Disposition       string  `json:"disposition"`
	Text              string  `json:"text"`
	Reason            string  `json:"reason"`
	IntegrityScore    float64 `json:"integrity_score"`
	ConsensusStrength string  `json:"consensus_strength"`
	ChosenBackend     string  `json:"chosen_backend,omitempty"`
	FallbackUsed      bool    `json:"fallback_used"`
}

// Handle processes the consensus_ask tool call.
func (t *AskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input := req.GetString("input", "")
	if input == "" {
		return mcp.NewToolResultError("'input' is required"), nil
	}

	res, err := t.p.Process(ctx, pipeline.Request{
		InputText: input,
		SessionID: req.GetString("session_id", "mcp"),
		SymbolicContext: symbolic.Context{
			Mode: req.GetString("mode", ""),
			Tone: req.GetString("tone", ""),
		},
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("consensus failed: %v", err)), nil
	}

	out, err := json.MarshalIndent(askResult{
		RequestID:         res.RequestID,
		Disposition:       string(res.Disposition),
		Text:              res.Text(),
		Reason:            string(res.EpistemicReason),
		IntegrityScore:    res.IntegrityScore,
		ConsensusStrength: string(res.ConsensusStrength),
		ChosenBackend:     res.ChosenBackend,
		FallbackUsed:      res.FallbackUsed,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// ─── HistoryTool ────────────────────────────────────────────────────────────

// HistoryTool handles the consensus_history MCP tool.
type HistoryTool struct {
	sessions session.Store
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(sessions session.Store) *HistoryTool {
	return &HistoryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for consensus_history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("consensus_history",
		mcp.WithDescription("Return the recent turns of a conversation, oldest first."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Conversation identifier"),
		),
	)
}

// Handle processes the consensus_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	turns, err := t.sessions.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read history: %v", err)), nil
	}
	if len(turns) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No history for session %q", id)), nil
	}

	out, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode history: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
