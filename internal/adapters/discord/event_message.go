package discord

import (
	"context"
	"log"
	"time"

	"hangoutbot/internal/domain"
	"hangoutbot/internal/domain/entities"
	pkgdiscord "hangoutbot/pkg/discord"
	"hangoutbot/pkg/timeparse"

	"github.com/bwmarrin/discordgo"
)

// buildSlotViews loads an event's timeslots with their current AVAILABLE
// counts, in creation order.
func (h *Handler) buildSlotViews(ctx context.Context, eventID int64) ([]pkgdiscord.SlotView, error) {
	slots, err := h.scheduling.GetTimeslotsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	views := make([]pkgdiscord.SlotView, 0, len(slots))
	for _, slot := range slots {
		count, err := h.scheduling.CountAvailable(ctx, slot.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, pkgdiscord.SlotView{Slot: slot, AvailableCount: count})
	}
	return views, nil
}

// creatorZone resolves the display zone for a posted poll message. The
// shared message renders in the creator's timezone; viewers use /hangout
// view for their own.
func (h *Handler) creatorZone(ctx context.Context, event *entities.Event) *time.Location {
	loc, err := timeparse.LoadZone(h.scheduling.UserTimezoneOrDefault(ctx, event.CreatorID))
	if err != nil {
		return time.UTC
	}
	return loc
}

// refreshPollMessage re-renders the posted embed after a state change.
// Best-effort: a failed edit never fails the mutation that triggered it.
func (h *Handler) refreshPollMessage(ctx context.Context, s *discordgo.Session, eventID int64) {
	event, err := h.scheduling.GetEventByID(ctx, eventID)
	if err != nil {
		log.Printf("refresh: load event %d: %v", eventID, err)
		return
	}
	if event.MessageID == "" {
		return
	}
	views, err := h.buildSlotViews(ctx, eventID)
	if err != nil {
		log.Printf("refresh: load slot views for event %d: %v", eventID, err)
		return
	}
	loc := h.creatorZone(ctx, event)

	var embed *discordgo.MessageEmbed
	if event.Status == domain.EventStatusClosed {
		embed = pkgdiscord.BuildSummaryEmbed(event, views, loc)
	} else {
		embed = pkgdiscord.BuildPollEmbed(event, views, loc)
	}
	embeds := []*discordgo.MessageEmbed{embed}
	if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      event.MessageID,
		Channel: event.ChannelID,
		Embeds:  &embeds,
	}); err != nil {
		log.Printf("refresh: edit message for event %d: %v", eventID, err)
	}
}

// seedReactions adds one reaction per timeslot marker plus the control
// emojis, so voters can click instead of hunting for emojis.
func (h *Handler) seedReactions(s *discordgo.Session, channelID, messageID string, views []pkgdiscord.SlotView) {
	seen := make(map[string]bool)
	for _, view := range views {
		if seen[view.Slot.Emoji] {
			continue
		}
		seen[view.Slot.Emoji] = true
		if err := s.MessageReactionAdd(channelID, messageID, view.Slot.Emoji); err != nil {
			log.Printf("seed reactions: %s on %s: %v", view.Slot.Emoji, messageID, err)
		}
	}
	for _, emoji := range []string{maybeEmoji, clearVotesEmoji} {
		if err := s.MessageReactionAdd(channelID, messageID, emoji); err != nil {
			log.Printf("seed reactions: %s on %s: %v", emoji, messageID, err)
		}
	}
}
