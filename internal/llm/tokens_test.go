package llm

import (
	"strings"
	"testing"
	"time"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"short", "oi", 1},
		{"exactly four chars", "test", 1},
		{"five chars rounds up", "hello", 2},
		{"typical sentence", "Quantos pedidos existem com status CONCLUIDO hoje?", 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.input)
			if got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEstimateMessageTokens(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want int
	}{
		{
			name: "simple user message",
			msg:  Message{Role: "user", Content: "hello"},
			want: 4 + 2, // overhead + "hello"
		},
		{
			name: "empty message",
			msg:  Message{Role: "assistant"},
			want: 4, // just overhead
		},
		{
			name: "message with tool call",
			msg: Message{
				Role: "assistant",
				ToolCalls: []ToolCall{
					{ID: "call_1", Name: "obterValorPedidoMaisCaro", Params: map[string]any{}},
				},
			},
			// overhead(4) + name(6) + params_json "{}"(1) + tool framing(4)
			want: 4 + 6 + 1 + 4,
		},
		{
			name: "tool result message",
			msg:  Message{Role: "user", Content: `{"quantidade":42}`, ToolCallID: "call_1"},
			// overhead(4) + content(5) + toolcallid(2) + framing(2)
			want: 4 + 5 + 2 + 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateMessageTokens(tt.msg)
			if got != tt.want {
				t.Errorf("EstimateMessageTokens() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateMessagesTokens(t *testing.T) {
	messages := []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}
	got := EstimateMessagesTokens(messages)
	// msg1: 4+2=6, msg2: 4+2=6
	want := 12
	if got != want {
		t.Errorf("EstimateMessagesTokens() = %d, want %d", got, want)
	}
}

func TestEstimateToolsTokens(t *testing.T) {
	tools := []Tool{
		{
			Name:        "obterQuantidadePedidosPorStatus",
			Description: "Retorna a quantidade de pedidos com um status.",
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		},
	}
	got := EstimateToolsTokens(tools)
	if got <= 10 {
		t.Errorf("EstimateToolsTokens() = %d, expected > 10 for a tool with name+desc+schema", got)
	}
}

func TestSystemPrompt_RendersCurrentDate(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.Local)
	got := SystemPrompt(now)
	if !strings.Contains(got, "2026-03-15") {
		t.Errorf("expected rendered prompt to contain 2026-03-15, got:\n%s", got)
	}
	if strings.Contains(got, "{{current_date}}") {
		t.Error("placeholder {{current_date}} was not replaced")
	}
	if !strings.Contains(got, "Robozinho") || !strings.Contains(got, "Venda Fácil") {
		t.Error("prompt is missing the agent persona")
	}
}
