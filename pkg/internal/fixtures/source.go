package fixtures

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// Source serves the seeded conversations, optionally after an artificial delay.
type Source struct {
	Delay         time.Duration
	conversations map[string][]models.Message
}

func NewSource(delay time.Duration) *Source {
	return &Source{Delay: delay, conversations: Conversations()}
}

func (v *Source) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	if v.Delay > 0 {
		timer := time.NewTimer(v.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	messages := v.conversations[conversationID]
	out := make([]models.Message, 0, len(messages))
	for _, item := range messages {
		out = append(out, models.CloneMessage(item))
	}
	log.Debug().Str("conversation", conversationID).Int("count", len(out)).Msg("Served fixture messages.")
	return out, nil
}
