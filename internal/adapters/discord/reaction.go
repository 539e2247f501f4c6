package discord

import (
	"context"
	"errors"
	"log"

	"hangoutbot/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// Control emojis that are not timeslot markers.
const (
	clearVotesEmoji = "❌"
	maybeEmoji      = "❓"
)

// HandleReactionAdd maps a reaction to a vote. Reactions on messages that
// are not poll embeds, or with emojis that match no marker, are ignored.
func (h *Handler) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	ctx := context.Background()
	event, err := h.scheduling.GetEventByMessageID(ctx, r.MessageID)
	if err != nil {
		return
	}
	if event.Status == domain.EventStatusClosed {
		return
	}

	emoji := r.Emoji.Name
	switch emoji {
	case clearVotesEmoji:
		if err := h.scheduling.RemoveAllVotes(ctx, r.UserID, event.ID); err != nil {
			log.Printf("reaction: clear votes (event=%d, user=%s): %v", event.ID, r.UserID, err)
			return
		}
		h.refreshPollMessage(ctx, s, event.ID)
		return
	case maybeEmoji:
		// Tentative for the whole event: MAYBE on every slot. Markers or
		// ❌ overwrite afterwards.
		slots, err := h.scheduling.GetTimeslotsByEvent(ctx, event.ID)
		if err != nil {
			return
		}
		for _, slot := range slots {
			if err := h.scheduling.Vote(ctx, r.UserID, slot.ID, domain.AvailabilityMaybe); err != nil {
				log.Printf("reaction: maybe vote (timeslot=%d, user=%s): %v", slot.ID, r.UserID, err)
				return
			}
		}
		h.refreshPollMessage(ctx, s, event.ID)
		return
	}

	slot, err := h.scheduling.FindTimeslotByEmoji(ctx, event.ID, emoji)
	if err != nil {
		return
	}
	if err := h.scheduling.Vote(ctx, r.UserID, slot.ID, domain.AvailabilityAvailable); err != nil {
		if !errors.Is(err, domain.ErrEventClosed) {
			log.Printf("reaction: vote (timeslot=%d, user=%s): %v", slot.ID, r.UserID, err)
		}
		return
	}
	h.refreshPollMessage(ctx, s, event.ID)
}

// HandleReactionRemove withdraws the matching vote.
func (h *Handler) HandleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	ctx := context.Background()
	event, err := h.scheduling.GetEventByMessageID(ctx, r.MessageID)
	if err != nil {
		return
	}
	if event.Status == domain.EventStatusClosed {
		return
	}

	emoji := r.Emoji.Name
	if emoji == clearVotesEmoji || emoji == maybeEmoji {
		return
	}
	slot, err := h.scheduling.FindTimeslotByEmoji(ctx, event.ID, emoji)
	if err != nil {
		return
	}
	if err := h.scheduling.RemoveVote(ctx, r.UserID, slot.ID); err != nil {
		log.Printf("reaction: remove vote (timeslot=%d, user=%s): %v", slot.ID, r.UserID, err)
		return
	}
	h.refreshPollMessage(ctx, s, event.ID)
}
