package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

func (v *Directory) GetDirectThreadByUser(user, other string) (models.DirectMessageThread, bool) {
	v.lock.Lock()
	defer v.lock.Unlock()
	if thread, ok := v.findDirectByUser(user, other); ok {
		return cloneDirect(*thread), true
	}
	return models.DirectMessageThread{}, false
}

// AddDirectThread opens a thread between two distinct users, at most one per pair.
func (v *Directory) AddDirectThread(user, other models.User) (models.DirectMessageThread, error) {
	if user.ID == other.ID {
		return models.DirectMessageThread{}, fmt.Errorf("%w: direct thread needs two different users", ErrValidation)
	}

	v.lock.Lock()
	defer v.lock.Unlock()
	if thread, ok := v.findDirectByUser(user.ID, other.ID); ok {
		return cloneDirect(*thread), fmt.Errorf("%w: you already have a direct with that user #%s", ErrValidation, thread.ID)
	}

	thread := &models.DirectMessageThread{
		ID:    uuid.NewString(),
		Users: []models.User{user, other},
	}
	v.directs = append(v.directs, thread)
	return cloneDirect(*thread), nil
}

func (v *Directory) findDirectByUser(user, other string) (*models.DirectMessageThread, bool) {
	return lo.Find(v.directs, func(item *models.DirectMessageThread) bool {
		return item.HasParticipant(user) && item.HasParticipant(other)
	})
}
