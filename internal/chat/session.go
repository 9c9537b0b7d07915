// Package chat runs an interactive coaching conversation on top of the
// fitnessChatbot flow. The flow itself is stateless; the session keeps the
// transcript and replays it as pastInteractions.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/metalagman/fitgenius/internal/catalog"
)

// DefaultHistoryTurns bounds how many past turns are replayed per question.
const DefaultHistoryTurns = 6

// Asker answers one chatbot question.
type Asker interface {
	FitnessChatbot(ctx context.Context, in catalog.FitnessChatbotInput) (catalog.FitnessChatbotOutput, error)
}

// Turn is one question and its answer.
type Turn struct {
	Query    string
	Response string
}

// Session holds a transcript. It is not safe for concurrent use.
type Session struct {
	asker            Asker
	personalSettings string
	maxTurns         int
	turns            []Turn
}

// NewSession creates a session. personalSettings is sent with every question.
func NewSession(asker Asker, personalSettings string, maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = DefaultHistoryTurns
	}
	return &Session{
		asker:            asker,
		personalSettings: strings.TrimSpace(personalSettings),
		maxTurns:         maxTurns,
	}
}

// Ask sends query with the recent transcript and records the answer. Failed
// questions are not added to the transcript.
func (s *Session) Ask(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("empty question")
	}
	out, err := s.asker.FitnessChatbot(ctx, catalog.FitnessChatbotInput{
		Query:            query,
		PersonalSettings: s.personalSettings,
		PastInteractions: s.PastInteractions(),
	})
	if err != nil {
		return "", err
	}
	s.turns = append(s.turns, Turn{Query: query, Response: out.Response})
	return out.Response, nil
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// PastInteractions summarizes the most recent turns.
func (s *Session) PastInteractions() string {
	turns := s.turns
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "User: %s\nCoach: %s", t.Query, t.Response)
	}
	return b.String()
}
