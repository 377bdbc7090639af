package orchestration

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one immutable entry of a dialogue history.
type Turn struct {
	ID        string
	Index     int
	Speaker   Speaker
	Text      string
	CreatedAt time.Time
}

// turns is an append-only history. Indices keep increasing across clears.
type turns struct {
	items     []Turn
	nextIndex int
}

func (t *turns) push(speaker Speaker, text string) Turn {
	turn := Turn{
		ID:        uuid.NewString(),
		Index:     t.nextIndex,
		Speaker:   speaker,
		Text:      text,
		CreatedAt: time.Now(),
	}
	t.nextIndex++
	t.items = append(t.items, turn)
	return turn
}

func (t *turns) clear() {
	t.items = nil
}

func (t *turns) snapshot() []Turn {
	history := []Turn{}
	if err := copier.Copy(&history, t.items); err != nil {
		logger.Warn("failed to copy dialogue history", "error", err)
		return append([]Turn(nil), t.items...)
	}
	return history
}
