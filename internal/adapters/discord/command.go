package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"hangoutbot/internal/domain"
	"hangoutbot/internal/domain/entities"
	"hangoutbot/internal/ports/input"
	pkgdiscord "hangoutbot/pkg/discord"
	"hangoutbot/pkg/timeparse"

	"github.com/bwmarrin/discordgo"
)

// maxCreateSlots is how many timeslot option triples /hangout create accepts.
const maxCreateSlots = 5

// HandleCommand routes /hangout subcommands.
func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		respondEphemeral(s, i.Interaction, h.t("reply.error.generic", nil))
		return
	}
	sub := data.Options[0]
	switch sub.Name {
	case "create":
		h.handleCreate(ctx, s, i, sub)
	case "availability":
		h.handleAvailability(ctx, s, i, sub)
	case "draft_create":
		h.handleDraftCreate(ctx, s, i, sub)
	case "draft_propose":
		h.handleDraftPropose(ctx, s, i, sub)
	case "draft_finalize":
		h.handleDraftFinalize(ctx, s, i, sub)
	case "list":
		h.handleList(ctx, s, i, sub)
	case "view":
		h.handleView(ctx, s, i, sub)
	case "close":
		h.handleClose(ctx, s, i, sub)
	case "deadline":
		h.handleDeadline(ctx, s, i, sub)
	case "timezone":
		h.handleTimezone(ctx, s, i, sub)
	default:
		respondEphemeral(s, i.Interaction, h.t("reply.error.generic", nil))
	}
}

func subOptionString(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return strings.TrimSpace(opt.StringValue())
		}
	}
	return ""
}

func subOptionInt(sub *discordgo.ApplicationCommandInteractionDataOption, name string) (int64, bool) {
	for _, opt := range sub.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionInteger {
			return opt.IntValue(), true
		}
	}
	return 0, false
}

func subOptionBool(sub *discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	for _, opt := range sub.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionBoolean {
			return opt.BoolValue()
		}
	}
	return false
}

// messageIDFromLink extracts the message id from a full message URL, or
// returns the input unchanged when it already looks like a bare id.
func messageIDFromLink(link string) string {
	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return link
	}
	parts := strings.Split(strings.TrimRight(link, "/"), "/")
	return parts[len(parts)-1]
}

// resolveEventID resolves the target event from either an explicit
// event_id or a message_link option.
func (h *Handler) resolveEventID(ctx context.Context, sub *discordgo.ApplicationCommandInteractionDataOption) (int64, bool) {
	if id, ok := subOptionInt(sub, "event_id"); ok {
		return id, true
	}
	link := subOptionString(sub, "message_link")
	if link == "" {
		return 0, false
	}
	messageID := messageIDFromLink(link)
	if messageID == "" {
		return 0, false
	}
	event, err := h.scheduling.GetEventByMessageID(ctx, messageID)
	if err != nil {
		return 0, false
	}
	return event.ID, true
}

func (h *Handler) replyDomainError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	key, data := pkgdiscord.MessageKeyForError(err)
	respondEphemeral(s, i.Interaction, h.t(key, data))
}

// viewerZone resolves the interaction user's preferred timezone.
func (h *Handler) viewerZone(ctx context.Context, userID string) *time.Location {
	loc, err := timeparse.LoadZone(h.scheduling.UserTimezoneOrDefault(ctx, userID))
	if err != nil {
		return time.UTC
	}
	return loc
}

// parseSlotOptions reads the timeN_start/timeN_end/timeN_desc triples.
// Windows that fail to parse or end before they start are skipped, matching
// the upstream validation contract: only well-formed windows reach the
// engine.
func (h *Handler) parseSlotOptions(sub *discordgo.ApplicationCommandInteractionDataOption, loc *time.Location) []input.TimeslotRequest {
	var requests []input.TimeslotRequest
	for n := 1; n <= maxCreateSlots; n++ {
		startStr := subOptionString(sub, fmt.Sprintf("time%d_start", n))
		if startStr == "" {
			continue
		}
		start, err := timeparse.ParseToUTC(startStr, loc)
		if err != nil {
			log.Printf("create: skip slot %d: %v", n, err)
			continue
		}
		end := start
		if endStr := subOptionString(sub, fmt.Sprintf("time%d_end", n)); endStr != "" {
			end, err = timeparse.ParseToUTC(endStr, loc)
			if err != nil {
				log.Printf("create: skip slot %d: %v", n, err)
				continue
			}
		}
		if end.Before(start) {
			log.Printf("create: skip slot %d: end before start", n)
			continue
		}
		requests = append(requests, input.TimeslotRequest{
			Start:       start,
			End:         end,
			Description: subOptionString(sub, fmt.Sprintf("time%d_desc", n)),
		})
	}
	return requests
}

func (h *Handler) handleCreate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	userID := interactionUserID(i)
	loc := h.viewerZone(ctx, userID)

	title := subOptionString(sub, "title")
	if title == "" {
		title = "Hangout Event"
	}
	description := subOptionString(sub, "description")

	requests := h.parseSlotOptions(sub, loc)
	if len(requests) == 0 {
		respondEphemeral(s, i.Interaction, h.t("reply.create.no_timeslots", nil))
		return
	}

	var deadline *time.Time
	if deadlineStr := subOptionString(sub, "deadline"); deadlineStr != "" {
		parsed, err := timeparse.ParseToUTC(deadlineStr, loc)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.t("reply.create.bad_deadline", map[string]any{"Input": deadlineStr}))
			return
		}
		if !parsed.After(time.Now()) {
			respondEphemeral(s, i.Interaction, h.t("reply.create.deadline_past", nil))
			return
		}
		latestEnd := requests[0].End
		for _, req := range requests[1:] {
			if req.End.After(latestEnd) {
				latestEnd = req.End
			}
		}
		if parsed.Before(latestEnd) {
			respondEphemeral(s, i.Interaction, h.t("reply.create.deadline_before_end", nil))
			return
		}
		deadline = &parsed
	}

	event, err := h.scheduling.CreateEvent(ctx, title, description, userID, i.ChannelID, deadline, requests)
	if err != nil {
		h.replyDomainError(s, i, err)
		return
	}

	views, err := h.buildSlotViews(ctx, event.ID)
	if err != nil {
		log.Printf("create: load slot views for event %d: %v", event.ID, err)
	}
	respondEmbed(s, i.Interaction, pkgdiscord.BuildPollEmbed(event, views, loc))

	// Remember the posted message and seed the voting reactions.
	// Both are best-effort: the event already exists either way.
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Printf("create: fetch interaction response for event %d: %v", event.ID, err)
		return
	}
	if err := h.scheduling.SetEventMessageID(ctx, event.ID, msg.ID); err != nil {
		log.Printf("create: store message id for event %d: %v", event.ID, err)
	}
	h.seedReactions(s, i.ChannelID, msg.ID, views)
}

// normalizeAvailabilityStatus maps a user-supplied status to its stored
// form.
func normalizeAvailabilityStatus(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", domain.AvailabilityAvailable:
		return domain.AvailabilityAvailable, true
	case domain.AvailabilityMaybe:
		return domain.AvailabilityMaybe, true
	case domain.AvailabilityUnavailable:
		return domain.AvailabilityUnavailable, true
	default:
		return "", false
	}
}

// handleAvailability sets or removes one user's vote on one option by its
// displayed number.
func (h *Handler) handleAvailability(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	eventID, ok := h.resolveEventID(ctx, sub)
	if !ok {
		respondEphemeral(s, i.Interaction, h.t("reply.event.missing_ref", nil))
		return
	}
	event, err := h.scheduling.GetEventByID(ctx, eventID)
	if err != nil {
		h.replyDomainError(s, i, err)
		return
	}
	if event.Status == domain.EventStatusClosed {
		respondEphemeral(s, i.Interaction, h.t("reply.event.closed", nil))
		return
	}

	slots, err := h.scheduling.GetTimeslotsByEvent(ctx, eventID)
	if err != nil {
		h.replyDomainError(s, i, err)
		return
	}
	if len(slots) == 0 {
		respondEphemeral(s, i.Interaction, h.t("reply.event.no_timeslots", nil))
		return
	}
	choice, ok := subOptionInt(sub, "choice")
	if !ok || choice < 1 || choice > int64(len(slots)) {
		respondEphemeral(s, i.Interaction, h.t("reply.availability.bad_choice", map[string]any{"Max": len(slots)}))
		return
	}
	selected := slots[choice-1]
	userID := interactionUserID(i)

	if subOptionBool(sub, "remove") {
		if err := h.scheduling.RemoveVote(ctx, userID, selected.ID); err != nil {
			h.replyDomainError(s, i, err)
			return
		}
		respondEphemeral(s, i.Interaction, h.t("reply.availability.removed", map[string]any{"Choice": choice}))
		h.refreshPollMessage(ctx, s, eventID)
		return
	}

	status, ok := normalizeAvailabilityStatus(subOptionString(sub, "status"))
	if !ok {
		respondEphemeral(s, i.Interaction, h.t("reply.availability.bad_status", nil))
		return
	}
	if err := h.scheduling.Vote(ctx, userID, selected.ID, status); err != nil {
		h.replyDomainError(s, i, err)
		return
	}
	respondEphemeral(s, i.Interaction, h.t("reply.availability.set",
		map[string]any{"Status": status, "Choice": choice}))
	h.refreshPollMessage(ctx, s, eventID)
}

func (h *Handler) handleDraftCreate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	userID := interactionUserID(i)
	title := subOptionString(sub, "title")
	if title == "" {
		title = "Hangout Event"
	}

	draft, err := h.scheduling.CreateDraftEvent(ctx, title, subOptionString(sub, "description"), userID, i.ChannelID)
	if err != nil {
		h.replyDomainError(s, i, err)
		return
	}

	respondEmbed(s, i.Interaction, pkgdiscord.BuildPollEmbed(draft, nil, h.viewerZone(ctx, userID)))
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Printf("draft_create: fetch interaction response for event %d: %v", draft.ID, err)
		return
	}
	if err := h.scheduling.SetEventMessageID(ctx, draft.ID, msg.ID); err != nil {
		log.Printf("draft_create: store message id for event %d: %v", draft.ID, err)
	}
}

func (h *Handler) handleDraftPropose(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	eventID, ok := h.resolveEventID(ctx, sub)
	if !ok {
		respondEphemeral(s, i.Interaction, h.t("reply.event.missing_ref", nil))
		return
	}
	userID := interactionUserID(i)
	loc := h.viewerZone(ctx, userID)

	startStr := subOptionString(sub, "start")
	start, err := timeparse.ParseToUTC(startStr, loc)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.t("reply.timeslot.bad_time", map[string]any{"Input": startStr}))
		return
	}
	end := start
	if endStr := subOptionString(sub, "end"); endStr != "" {
		end, err = timeparse.ParseToUTC(endStr, loc)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.t("reply.timeslot.bad_time", map[string]any{"Input": endStr}))
			return
		}
	}
	if end.Before(start) {
		respondEphemeral(s, i.Interaction, h.t("reply.timeslot.end_before_start", nil))
		return
	}

	slot, err := h.scheduling.AddTimeslot(ctx, eventID, input.TimeslotRequest{
		Start:       start,
		End:         end,
		Description: subOptionString(sub, "desc"),
	})
	if err != nil {
		h.replyDomainError(s, i, err)
		return
	}

	respondEphemeral(s, i.Interaction, h.t("reply.draft.proposed", nil))
	h.refreshPollMessage(ctx, s, eventID)
	if event, err := h.scheduling.GetEventByID(ctx, eventID); err == nil && event.MessageID != "" {
		if err := s.MessageReactionAdd(event.ChannelID, event.MessageID, slot.Emoji); err != nil {
			log.Printf("draft_propose: seed reaction on event %d: %v", eventID, err)
		}
	}
}

func (h *Handler) handleDraftFinalize(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	eventID, ok := h.resolveEventID(ctx, sub)
	if !ok {
		respondEphemeral(s, i.Interaction, h.t("reply.event.missing_ref", nil))
		return
	}
	if _, err := h.scheduling.FinalizeDraft(ctx, eventID); err != nil {
		h.replyDomainError(s, i, err)
		return
	}
	respondPublic(s, i.Interaction, h.t("reply.draft.finalized", nil))
	h.refreshPollMessage(ctx, s, eventID)
}

func (h *Handler) handleList(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	var events []entities.Event
	var err error
	if status := subOptionString(sub, "status"); status != "" {
		events, err = h.scheduling.GetEventsByChannelAndStatus(ctx, i.ChannelID, strings.ToUpper(status))
	} else {
		events, err = h.scheduling.GetActiveEventsForChannel(ctx, i.ChannelID)
	}
	if err != nil {
		h.replyDomainError(s, i, err)
		return
	}
	if len(events) == 0 {
		respondEphemeral(s, i.Interaction, h.t("reply.list.empty", nil))
		return
	}

	loc := h.viewerZone(ctx, interactionUserID(i))
	var b strings.Builder
	for _, event := range events {
		b.WriteString(fmt.Sprintf("**#%d** %s (%s)", event.ID, event.Title, event.Status))
		if event.Deadline != nil {
			b.WriteString(" (closes " + timeparse.FormatForDisplay(*event.Deadline, loc) + ")")
		}
		b.WriteString("\n")
	}
	respondEphemeral(s, i.Interaction, b.String())
}

func (h *Handler) handleView(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	eventID, ok := h.resolveEventID(ctx, sub)
	if !ok {
		respondEphemeral(s, i.Interaction, h.t("reply.event.missing_ref", nil))
		return
	}
	event, err := h.scheduling.GetEventByID(ctx, eventID)
	if err != nil {
		h.replyDomainError(s, i, err)
		return
	}
	views, err := h.buildSlotViews(ctx, eventID)
	if err != nil {
		h.replyDomainError(s, i, err)
		return
	}
	loc := h.viewerZone(ctx, interactionUserID(i))
	if event.Status == domain.EventStatusClosed {
		respondEmbed(s, i.Interaction, pkgdiscord.BuildSummaryEmbed(event, views, loc))
		return
	}
	respondEmbed(s, i.Interaction, pkgdiscord.BuildPollEmbed(event, views, loc))
}

func (h *Handler) handleClose(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	eventID, ok := h.resolveEventID(ctx, sub)
	if !ok {
		respondEphemeral(s, i.Interaction, h.t("reply.event.missing_ref", nil))
		return
	}
	if err := h.scheduling.CloseEvent(ctx, eventID); err != nil {
		h.replyDomainError(s, i, err)
		return
	}
	respondPublic(s, i.Interaction, h.t("reply.event.closed_confirm", nil))
	h.refreshPollMessage(ctx, s, eventID)
}

func (h *Handler) handleDeadline(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	eventID, ok := h.resolveEventID(ctx, sub)
	if !ok {
		respondEphemeral(s, i.Interaction, h.t("reply.event.missing_ref", nil))
		return
	}
	userID := interactionUserID(i)
	loc := h.viewerZone(ctx, userID)

	whenStr := subOptionString(sub, "when")
	deadline, err := timeparse.ParseToUTC(whenStr, loc)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.t("reply.timeslot.bad_time", map[string]any{"Input": whenStr}))
		return
	}
	if !deadline.After(time.Now()) {
		respondEphemeral(s, i.Interaction, h.t("reply.create.deadline_past", nil))
		return
	}
	if err := h.scheduling.SetEventDeadline(ctx, eventID, deadline); err != nil {
		h.replyDomainError(s, i, err)
		return
	}
	respondEphemeral(s, i.Interaction, h.t("reply.event.deadline_set",
		map[string]any{"Deadline": timeparse.FormatForDisplay(deadline, loc)}))
	h.refreshPollMessage(ctx, s, eventID)
}

func (h *Handler) handleTimezone(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	userID := interactionUserID(i)
	zone := subOptionString(sub, "zone")
	if zone == "" {
		respondEphemeral(s, i.Interaction, h.t("reply.timezone.current",
			map[string]any{"Zone": h.scheduling.UserTimezoneOrDefault(ctx, userID)}))
		return
	}
	if err := h.scheduling.SetUserTimezone(ctx, userID, zone); err != nil {
		respondEphemeral(s, i.Interaction, h.t("reply.timezone.invalid", map[string]any{"Zone": zone}))
		return
	}
	respondEphemeral(s, i.Interaction, h.t("reply.timezone.updated", map[string]any{"Zone": zone}))
}
