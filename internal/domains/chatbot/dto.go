package chatbot

import "strings"

// MaxHistoryTurns bounds the prior conversation replayed to the model.
const MaxHistoryTurns = 20

// Turn is one prior message. Role is "user" or "model".
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AskRequest struct {
	Query   string `json:"query"`
	History []Turn `json:"history"`
}

// Normalize trims the query and keeps the latest valid history turns.
func (r *AskRequest) Normalize() {
	r.Query = strings.TrimSpace(r.Query)

	kept := make([]Turn, 0, len(r.History))
	for _, t := range r.History {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		if t.Role != "user" && t.Role != "model" {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) > MaxHistoryTurns {
		kept = kept[len(kept)-MaxHistoryTurns:]
	}
	r.History = kept
}

func (r AskRequest) Validate() error {
	if r.Query == "" {
		return ErrQueryRequired
	}
	return nil
}
