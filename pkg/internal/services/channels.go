package services

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Caller carries the capabilities of whoever invokes a directory mutation.
type Caller struct {
	UserID  string
	IsAdmin bool
}

type ChannelRequest struct {
	Name         string   `validate:"required,max=80"`
	IsPrivate    bool     `validate:"-"`
	AllowedUsers []string `validate:"dive,required"`
}

// Directory owns the channels and direct threads of a host session.
type Directory struct {
	lock     sync.Mutex
	channels []*models.Channel
	directs  []*models.DirectMessageThread
	clock    func() time.Time

	sortLock sync.Mutex
	collator *collate.Collator
}

func NewDirectory(locale language.Tag) *Directory {
	return &Directory{
		clock:    time.Now,
		collator: collate.New(locale),
	}
}

// Seed replaces the directory content with fixture or backing data.
func (v *Directory) Seed(channels []models.Channel, directs []models.DirectMessageThread) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.channels = lo.Map(channels, func(item models.Channel, index int) *models.Channel {
		item.AllowedUsers = slices.Clone(item.AllowedUsers)
		return &item
	})
	v.directs = lo.Map(directs, func(item models.DirectMessageThread, index int) *models.DirectMessageThread {
		item.Users = slices.Clone(item.Users)
		return &item
	})
}

func (v *Directory) CreateChannel(caller Caller, req ChannelRequest) (models.Channel, error) {
	if !caller.IsAdmin {
		return models.Channel{}, ErrUnauthorized
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := ValidateStruct(req); err != nil {
		return models.Channel{}, err
	}

	v.lock.Lock()
	defer v.lock.Unlock()
	if v.nameTaken(req.Name, "") {
		return models.Channel{}, fmt.Errorf("%w: channel name %q is already in use", ErrValidation, req.Name)
	}

	channel := &models.Channel{
		ID:           uuid.NewString(),
		Name:         req.Name,
		IsPrivate:    req.IsPrivate,
		AllowedUsers: lo.Ternary(req.IsPrivate, lo.Uniq(req.AllowedUsers), []string(nil)),
		CreatedAt:    v.clock(),
	}
	v.channels = append(v.channels, channel)

	log.Info().Str("channel", channel.ID).Str("caller", caller.UserID).Msg("Channel created.")
	return *channel, nil
}

func (v *Directory) RenameChannel(caller Caller, id, name string) (models.Channel, error) {
	name = strings.TrimSpace(name)
	return v.mutateChannel(caller, id, func(channel *models.Channel) error {
		if err := ValidateVar(name, "required,max=80"); err != nil {
			return err
		}
		if v.nameTaken(name, channel.ID) {
			return fmt.Errorf("%w: channel name %q is already in use", ErrValidation, name)
		}
		channel.Name = name
		return nil
	})
}

func (v *Directory) Pin(caller Caller, id string) (models.Channel, error) {
	return v.mutateChannel(caller, id, func(channel *models.Channel) error {
		channel.IsPinned = true
		return nil
	})
}

func (v *Directory) Unpin(caller Caller, id string) (models.Channel, error) {
	return v.mutateChannel(caller, id, func(channel *models.Channel) error {
		channel.IsPinned = false
		return nil
	})
}

func (v *Directory) Archive(caller Caller, id string) (models.Channel, error) {
	return v.mutateChannel(caller, id, func(channel *models.Channel) error {
		channel.IsArchived = true
		return nil
	})
}

func (v *Directory) Unarchive(caller Caller, id string) (models.Channel, error) {
	return v.mutateChannel(caller, id, func(channel *models.Channel) error {
		channel.IsArchived = false
		return nil
	})
}

func (v *Directory) DeleteChannel(caller Caller, id string) error {
	if !caller.IsAdmin {
		return ErrUnauthorized
	}

	v.lock.Lock()
	defer v.lock.Unlock()
	idx := slices.IndexFunc(v.channels, func(item *models.Channel) bool {
		return item.ID == id
	})
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, id)
	}
	v.channels = slices.Delete(v.channels, idx, idx+1)

	log.Info().Str("channel", id).Str("caller", caller.UserID).Msg("Channel deleted.")
	return nil
}

func (v *Directory) GetChannel(id string) (models.Channel, bool) {
	v.lock.Lock()
	defer v.lock.Unlock()
	channel, ok := v.findChannel(id)
	if !ok {
		return models.Channel{}, false
	}
	return cloneChannel(*channel), true
}

// Has reports whether id names a channel or a direct thread.
func (v *Directory) Has(id string) bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	if _, ok := v.findChannel(id); ok {
		return true
	}
	_, ok := v.findDirect(id)
	return ok
}

type View struct {
	Channels []models.Channel
	Directs  []models.DirectMessageThread
}

// Search matches channel names and direct thread participant names,
// case-insensitively. An empty query returns everything.
func (v *Directory) Search(query string) View {
	query = strings.ToLower(strings.TrimSpace(query))

	v.lock.Lock()
	defer v.lock.Unlock()

	channels := lo.FilterMap(v.channels, func(item *models.Channel, index int) (models.Channel, bool) {
		return cloneChannel(*item), strings.Contains(strings.ToLower(item.Name), query)
	})
	directs := lo.FilterMap(v.directs, func(item *models.DirectMessageThread, index int) (models.DirectMessageThread, bool) {
		matched := lo.ContainsBy(item.Users, func(user models.User) bool {
			return strings.Contains(strings.ToLower(user.Name), query)
		})
		return cloneDirect(*item), matched
	})

	return View{Channels: channels, Directs: directs}
}

// OrderedChannels sorts pinned, then unpinned, then archived channels.
// The first two groups put unread channels first and then order by name,
// archived channels are ordered by name only.
func (v *Directory) OrderedChannels(channels []models.Channel) []models.Channel {
	var pinned, unpinned, archived []models.Channel
	for _, item := range channels {
		switch {
		case item.IsArchived:
			archived = append(archived, item)
		case item.IsPinned:
			pinned = append(pinned, item)
		default:
			unpinned = append(unpinned, item)
		}
	}

	v.sortLock.Lock()
	defer v.sortLock.Unlock()

	byActivity := func(a, b models.Channel) int {
		if a.HasUnread() != b.HasUnread() {
			return lo.Ternary(a.HasUnread(), -1, 1)
		}
		return v.collator.CompareString(a.Name, b.Name)
	}
	slices.SortStableFunc(pinned, byActivity)
	slices.SortStableFunc(unpinned, byActivity)
	slices.SortStableFunc(archived, func(a, b models.Channel) int {
		return v.collator.CompareString(a.Name, b.Name)
	})

	out := make([]models.Channel, 0, len(channels))
	out = append(out, pinned...)
	out = append(out, unpinned...)
	return append(out, archived...)
}

// OrderedDirectMessages puts unread threads first and then orders by the
// display name of the participant that is not selfID.
func (v *Directory) OrderedDirectMessages(threads []models.DirectMessageThread, selfID string) []models.DirectMessageThread {
	out := slices.Clone(threads)

	v.sortLock.Lock()
	defer v.sortLock.Unlock()

	slices.SortStableFunc(out, func(a, b models.DirectMessageThread) int {
		if a.HasUnread() != b.HasUnread() {
			return lo.Ternary(a.HasUnread(), -1, 1)
		}
		return v.collator.CompareString(a.Other(selfID).Name, b.Other(selfID).Name)
	})
	return out
}

// Sidebar is the filtered and ordered presentation of the directory.
func (v *Directory) Sidebar(query, selfID string) View {
	view := v.Search(query)
	return View{
		Channels: v.OrderedChannels(view.Channels),
		Directs:  v.OrderedDirectMessages(view.Directs, selfID),
	}
}

func (v *Directory) mutateChannel(caller Caller, id string, apply func(channel *models.Channel) error) (models.Channel, error) {
	if !caller.IsAdmin {
		return models.Channel{}, ErrUnauthorized
	}

	v.lock.Lock()
	defer v.lock.Unlock()
	channel, ok := v.findChannel(id)
	if !ok {
		return models.Channel{}, fmt.Errorf("%w: %s", ErrChannelNotFound, id)
	}

	// Work on a copy so a failed mutation leaves the channel untouched.
	pending := cloneChannel(*channel)
	if err := apply(&pending); err != nil {
		return models.Channel{}, err
	}
	*channel = pending
	return cloneChannel(pending), nil
}

func (v *Directory) nameTaken(name, exceptID string) bool {
	return lo.ContainsBy(v.channels, func(item *models.Channel) bool {
		return item.ID != exceptID && strings.EqualFold(item.Name, name)
	})
}

func (v *Directory) findChannel(id string) (*models.Channel, bool) {
	return lo.Find(v.channels, func(item *models.Channel) bool {
		return item.ID == id
	})
}

func (v *Directory) findDirect(id string) (*models.DirectMessageThread, bool) {
	return lo.Find(v.directs, func(item *models.DirectMessageThread) bool {
		return item.ID == id
	})
}

func cloneChannel(src models.Channel) models.Channel {
	src.AllowedUsers = slices.Clone(src.AllowedUsers)
	return src
}

func cloneDirect(src models.DirectMessageThread) models.DirectMessageThread {
	src.Users = slices.Clone(src.Users)
	return src
}
