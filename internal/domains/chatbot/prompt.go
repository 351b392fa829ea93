package chatbot

import (
	"encoding/json"
	"fmt"
	"strings"

	"portfolio-backend/internal/domains/portfolio"
)

const defaultPersona = "You are Jarvis, a concise and professional assistant on a personal portfolio website."

// BuildSystemPrompt renders the instruction given to the model for one request.
// The portfolio snapshot is embedded as JSON.
func BuildSystemPrompt(persona string, snap *portfolio.Snapshot) (string, error) {
	if strings.TrimSpace(persona) == "" {
		persona = defaultPersona
	}

	owner := "the site owner"
	if snap.Profile != nil && snap.Profile.Name != "" {
		owner = snap.Profile.Name
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode portfolio snapshot: %w", err)
	}

	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "You answer questions about %s using only the portfolio data below.\n\n", owner)
	b.WriteString("PORTFOLIO DATA:\n")
	b.Write(data)
	b.WriteString("\n\nRULES:\n")
	b.WriteString("1. Keep answers brief and suitable for a chat window.\n")
	fmt.Fprintf(&b, "2. If a question is unrelated, politely steer back to %s's professional background.\n", owner)
	b.WriteString("3. If the data does not contain the answer, say so instead of guessing.\n")
	return b.String(), nil
}
