package memory

import (
	"log"

	"github.com/occhi/vendafacil/internal/llm"
)

// Trim bounds a transcript to a token budget and returns the surviving turns
// together with their estimated token total.
//
// Strategy:
//  1. Group turns into logical units: a lone user or assistant message is a
//     unit; an assistant tool-call message plus all its tool results is one
//     unit that is never split.
//  2. Always keep the most recent unit (the active exchange).
//  3. Drop the oldest units first until the total fits.
//
// A single unit larger than the whole budget is kept anyway — the system
// prompt lives outside the turn list, so this never evicts it — and the case
// is logged rather than treated as an error.
func Trim(turns []llm.Message, maxTokens int) ([]llm.Message, int) {
	if len(turns) == 0 {
		return turns, 0
	}

	groups := groupTurns(turns)

	total := 0
	for _, g := range groups {
		total += g.tokens
	}
	if total <= maxTokens {
		return turns, total
	}

	kept := total
	dropUntil := 0
	for dropUntil < len(groups)-1 && kept > maxTokens {
		kept -= groups[dropUntil].tokens
		dropUntil++
	}

	if kept > maxTokens {
		log.Printf("memory: single exchange exceeds budget (%d > %d tokens), keeping it anyway", kept, maxTokens)
	}

	var trimmed []llm.Message
	for _, g := range groups[dropUntil:] {
		trimmed = append(trimmed, g.turns...)
	}
	return trimmed, kept
}

// turnGroup is a unit of conversation that is kept or dropped as a whole, so
// a surviving tool call always has its results alongside it.
type turnGroup struct {
	turns  []llm.Message
	tokens int
}

func groupTurns(turns []llm.Message) []turnGroup {
	var groups []turnGroup
	i := 0
	for i < len(turns) {
		msg := turns[i]

		// Assistant tool-call message: group it with the tool results that follow.
		if msg.Role == "assistant" && len(msg.ToolCalls) > 0 {
			group := turnGroup{}
			group.turns = append(group.turns, msg)
			group.tokens += llm.EstimateMessageTokens(msg)
			i++
			for i < len(turns) && turns[i].ToolCallID != "" {
				group.turns = append(group.turns, turns[i])
				group.tokens += llm.EstimateMessageTokens(turns[i])
				i++
			}
			groups = append(groups, group)
			continue
		}

		groups = append(groups, turnGroup{
			turns:  []llm.Message{msg},
			tokens: llm.EstimateMessageTokens(msg),
		})
		i++
	}
	return groups
}
