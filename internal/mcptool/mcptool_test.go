package mcptool

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/invoker"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/pipeline"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/session"
)

// ─── Helpers ─────────────────────────────────────────────────────────────────

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, r *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}
}

func mustBeToolError(t *testing.T, r *mcp.CallToolResult, err error, wantSubstr string) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if !r.IsError {
		t.Fatalf("expected tool error, got: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), wantSubstr) {
		t.Errorf("error %q should contain %q", resultText(r), wantSubstr)
	}
}

func newPipeline(inv *invoker.Scripted, sessions session.Store) *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		Backends:       []string{"m1", "m2"},
		DefaultBackend: "m1",
		Invoker:        inv,
		Sessions:       sessions,
	})
}

// ─── AskTool Tests ───────────────────────────────────────────────────────────

func TestAskTool_Definition(t *testing.T) {
	def := NewAskTool(nil).Definition()
	if def.Name != "consensus_ask" {
		t.Errorf("tool name = %q, want consensus_ask", def.Name)
	}
	for _, p := range []string{"input", "session_id", "mode", "tone"} {
		if _, ok := def.InputSchema.Properties[p]; !ok {
			t.Errorf("missing %q parameter", p)
		}
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "input" {
		t.Errorf("required = %v, want [input]", def.InputSchema.Required)
	}
}

func TestAskTool_MissingInput(t *testing.T) {
	r, err := NewAskTool(nil).Handle(context.Background(), makeReq(map[string]interface{}{}))
	mustBeToolError(t, r, err, "'input' is required")
}

func TestAskTool_Proceeds(t *testing.T) {
	inv := invoker.NewScripted()
	text := "Vaccines expose the immune system to harmless antigens so that memory cells learn to recognize pathogens quickly before infection spreads."
	inv.Script("m1", invoker.Outcome{Text: text})
	inv.Script("m2", invoker.Outcome{Text: text})
	sessions := session.NewMemoryStore(0)
	tool := NewAskTool(newPipeline(inv, sessions))

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"input":      "Explain how vaccines train the immune system",
		"session_id": "mcp-1",
		"mode":       "analyze",
	}))
	mustNotError(t, r, err)

	var got askResult
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got.Disposition != "proceed" || got.Text != text || got.RequestID == "" {
		t.Fatalf("result = %+v", got)
	}
	if got.ConsensusStrength != "strong" || got.FallbackUsed {
		t.Fatalf("result = %+v", got)
	}

	turns, _ := sessions.Get(context.Background(), "mcp-1")
	if len(turns) != 1 {
		t.Fatalf("expected one recorded turn, got %d", len(turns))
	}
}

func TestAskTool_TotalFailureIsToolError(t *testing.T) {
	inv := invoker.NewScripted()
	inv.Script("m1", invoker.Outcome{Err: "down"}, invoker.Outcome{Err: "down"})
	inv.Script("m2", invoker.Outcome{Err: "down"})
	tool := NewAskTool(newPipeline(inv, nil))

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"input": "hello there friend"}))
	mustBeToolError(t, r, err, "consensus failed")
}

// ─── HistoryTool Tests ───────────────────────────────────────────────────────

func TestHistoryTool(t *testing.T) {
	ctx := context.Background()
	sessions := session.NewMemoryStore(0)
	sessions.Append(ctx, "s", session.Turn{UserText: "react error", AssistantText: "Which version?"})
	tool := NewHistoryTool(sessions)

	r, err := tool.Handle(ctx, makeReq(map[string]interface{}{"session_id": "s"}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "react error") {
		t.Errorf("history should include the user text, got: %s", resultText(r))
	}

	r, err = tool.Handle(ctx, makeReq(map[string]interface{}{"session_id": "empty"}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "No history") {
		t.Errorf("expected empty-history message, got: %s", resultText(r))
	}

	r, err = tool.Handle(ctx, makeReq(map[string]interface{}{}))
	mustBeToolError(t, r, err, "'session_id' is required")
}

func TestNewServer(t *testing.T) {
	if s := NewServer(nil, session.NewMemoryStore(0)); s == nil {
		t.Fatal("expected a server")
	}
}
