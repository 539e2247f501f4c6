package discord

import (
	"fmt"
	"strings"
	"time"

	"hangoutbot/internal/domain"
	"hangoutbot/internal/domain/entities"
	"hangoutbot/pkg/timeparse"

	"github.com/bwmarrin/discordgo"
)

const (
	activeColor = 0x5865F2
	draftColor  = 0xFFA500
	closedColor = 0x99AAB5
)

// SlotView pairs a timeslot with its current AVAILABLE count for display.
type SlotView struct {
	Slot           entities.Timeslot
	AvailableCount int
}

func slotField(view SlotView, index int, loc *time.Location) *discordgo.MessageEmbedField {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**Time:** %s\n", timeparse.FormatRange(view.Slot.StartTime, view.Slot.EndTime, loc)))
	b.WriteString(fmt.Sprintf("**Available:** %d people", view.AvailableCount))
	if view.Slot.Description != "" {
		b.WriteString(fmt.Sprintf("\n**Note:** %s", view.Slot.Description))
	}
	return &discordgo.MessageEmbedField{
		Name:  fmt.Sprintf("%s Option %d", view.Slot.Emoji, index+1),
		Value: b.String(),
	}
}

// BuildPollEmbed renders the voting embed for an active or draft event in
// the viewer's timezone.
func BuildPollEmbed(event *entities.Event, slots []SlotView, loc *time.Location) *discordgo.MessageEmbed {
	isDraft := event.Status == domain.EventStatusDraft

	title := "🗓️ " + event.Title
	color := activeColor
	description := event.Description
	if isDraft {
		title = "📝 Draft: " + event.Title
		color = draftColor
		if description == "" {
			description = "Use /hangout draft_propose to add options, then react to vote"
		}
	} else if description == "" {
		description = "React with the numbers below to vote for your availability!"
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Event ID: %d | TZ: %s | React to vote!", event.ID, loc.String()),
		},
	}

	if event.Deadline != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⏰ Voting Deadline",
			Value: timeparse.FormatForDisplay(*event.Deadline, loc) + " (auto-close)",
		})
	}

	for i, view := range slots {
		embed.Fields = append(embed.Fields, slotField(view, i, loc))
	}

	howTo := "React with the number emoji for times you're **available**\nUse ❓ if you're **maybe** available\nUse ❌ to **remove** your vote"
	if isDraft {
		howTo = "Use `/hangout draft_propose` to add time options, then react to vote.\nWhen ready, run `/hangout draft_finalize`."
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "📋 How to Vote", Value: howTo})

	return embed
}

// BuildSummaryEmbed renders the final results once an event is closed. The
// most popular slot (first created wins ties) gets the trophy.
func BuildSummaryEmbed(event *entities.Event, slots []SlotView, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🔒 " + event.Title,
		Description: "Voting has ended. Results below.",
		Color:       closedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Event ID: %d | TZ: %s", event.ID, loc.String()),
		},
	}

	if event.Deadline != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⏰ Voting Deadline",
			Value: timeparse.FormatForDisplay(*event.Deadline, loc) + " (event is now closed)",
		})
	}

	winner := -1
	bestCount := 0
	for i, view := range slots {
		if view.AvailableCount > bestCount {
			winner = i
			bestCount = view.AvailableCount
		}
	}

	for i, view := range slots {
		indicator := ""
		if i == winner {
			indicator = "🏆 "
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s Option %d", view.Slot.Emoji, i+1),
			Value: fmt.Sprintf("%s**%d people available**\n%s",
				indicator, view.AvailableCount,
				timeparse.FormatRange(view.Slot.StartTime, view.Slot.EndTime, loc)),
			Inline: true,
		})
	}

	if winner >= 0 {
		view := slots[winner]
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "🎉 Most Popular Time",
			Value: fmt.Sprintf("%s\n**%d people** can make it!",
				timeparse.FormatRange(view.Slot.StartTime, view.Slot.EndTime, loc),
				view.AvailableCount),
		})
	}

	return embed
}
