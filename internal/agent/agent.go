// Package agent runs the tool-calling loop that turns one user message into
// one assistant reply, reading and committing the session transcript around
// the loop.
package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/occhi/vendafacil/internal/llm"
	"github.com/occhi/vendafacil/internal/memory"
	"github.com/occhi/vendafacil/internal/tools"
)

const (
	defaultMaxToolRounds = 8
	defaultLLMTimeout    = 60 * time.Second

	// Reply when the model keeps calling tools past the round limit.
	exhaustedReply = "Desculpe, não consegui concluir sua solicitação agora. Pode tentar novamente?"
)

type Agent struct {
	sessions      *memory.Store
	registry      *tools.Registry
	client        llm.Client
	maxToolRounds int
	llmTimeout    time.Duration
}

func New(sessions *memory.Store, registry *tools.Registry, client llm.Client, maxToolRounds int, llmTimeout time.Duration) *Agent {
	if maxToolRounds <= 0 {
		maxToolRounds = defaultMaxToolRounds
	}
	if llmTimeout <= 0 {
		llmTimeout = defaultLLMTimeout
	}
	return &Agent{
		sessions:      sessions,
		registry:      registry,
		client:        client,
		maxToolRounds: maxToolRounds,
		llmTimeout:    llmTimeout,
	}
}

// Answer takes one user message, runs the tool-calling loop, and returns the
// final text reply. The session transcript is committed only when a reply is
// produced; on error or cancellation the transcript stays as it was before
// the call, so a retried request replays cleanly.
func (a *Agent) Answer(ctx context.Context, sessionID, userMessage string) (string, error) {
	handle := a.sessions.Acquire(sessionID)
	defer handle.Release()

	messages := append(handle.History(), llm.Message{Role: "user", Content: userMessage})
	systemPrompt := llm.SystemPrompt(time.Now())
	toolSpecs := a.registry.Specs()

	for i := 0; i < a.maxToolRounds; i++ {
		trimmed, _ := memory.Trim(messages, a.sessions.MaxTokens())
		if len(trimmed) < len(messages) {
			log.Printf("context trimmed: %d → %d messages", len(messages), len(trimmed))
			messages = trimmed
		}

		resp, err := a.chat(ctx, systemPrompt, messages, toolSpecs)
		if err != nil {
			return "", fmt.Errorf("llm chat: %w", err)
		}

		// No tool calls — we have a final answer.
		if len(resp.ToolCalls) == 0 {
			messages = append(messages, llm.Message{Role: "assistant", Content: resp.Content})
			handle.Replace(messages)
			return resp.Content, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// Execute each tool call in order and append results. Every call the
		// model made gets a result turn, otherwise the transcript could not
		// be replayed.
		for _, tc := range resp.ToolCalls {
			if err := ctx.Err(); err != nil {
				return "", fmt.Errorf("tool round interrupted: %w", err)
			}
			result := a.registry.Dispatch(ctx, tc.Name, tc.Params)
			log.Printf("tool %s → %s", tc.Name, truncate(result, 200))
			messages = append(messages, llm.Message{
				Role:       "user",
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	log.Printf("session %s: tool rounds exhausted after %d rounds", sessionID, a.maxToolRounds)
	messages = append(messages, llm.Message{Role: "assistant", Content: exhaustedReply})
	handle.Replace(messages)
	return exhaustedReply, nil
}

// chat bounds a single model call; the loop as a whole is bounded by the
// caller's context.
func (a *Agent) chat(ctx context.Context, systemPrompt string, messages []llm.Message, toolSpecs []llm.Tool) (*llm.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, a.llmTimeout)
	defer cancel()
	return a.client.Chat(ctx, systemPrompt, messages, toolSpecs)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
