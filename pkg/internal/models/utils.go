package models

import (
	"slices"

	"github.com/samber/lo"
)

// CloneMessage returns a copy of src that shares no slice, map or pointer with it.
func CloneMessage(src Message) Message {
	out := src
	out.Attachments = slices.Clone(src.Attachments)
	out.Mentions = slices.Clone(src.Mentions)
	out.DocumentRefs = slices.Clone(src.DocumentRefs)
	if src.EditedAt != nil {
		out.EditedAt = lo.ToPtr(*src.EditedAt)
	}
	if src.ReplyTo != nil {
		out.ReplyTo = lo.ToPtr(*src.ReplyTo)
	}
	if src.ReplyToSnapshot != nil {
		out.ReplyToSnapshot = lo.ToPtr(*src.ReplyToSnapshot)
	}
	if src.Reactions != nil {
		out.Reactions = make(map[string]*Reaction, len(src.Reactions))
		for emoji, reaction := range src.Reactions {
			if reaction == nil {
				continue
			}
			out.Reactions[emoji] = &Reaction{
				Emoji: reaction.Emoji,
				Count: reaction.Count,
				Users: slices.Clone(reaction.Users),
			}
		}
	}
	return out
}
