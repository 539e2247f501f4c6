package discord

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"hangoutbot/internal/application"
	"hangoutbot/internal/config"
	"hangoutbot/internal/ports/input"
	"hangoutbot/internal/ports/output"
)

// Bot is the Discord adapter.
type Bot struct {
	session   *discordgo.Session
	config    *config.Config
	handler   *Handler
	autoClose *application.AutoCloseService
}

// NewBot creates a Bot and wires ports: the scheduling use case feeds the
// interaction handler, and the handler doubles as close notifier for the
// auto-close sweep.
func NewBot(cfg *config.Config, scheduling input.SchedulingUseCase, translator output.T) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create Discord session: %w", err)
	}
	s.Identify.Intents |= discordgo.IntentGuildMessageReactions

	handler := NewHandler(scheduling, translator)
	notifier := NewCloseNotifier(s, handler)

	bot := &Bot{
		session:   s,
		config:    cfg,
		handler:   handler,
		autoClose: application.NewAutoCloseService(scheduling, notifier),
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handler.HandleReactionAdd)
	b.session.AddHandler(b.handler.HandleReactionRemove)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().Name == "hangout" {
		b.handler.HandleCommand(s, i)
	}
}

// Start runs the bot until interrupted.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer b.session.Close()

	if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, hangoutCommand()); err != nil {
		log.Printf("⚠️ register /hangout command: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go RunAutoClose(ctx, b.autoClose, b.config.AutoCloseInterval)

	log.Println("🤖 Bot online. Press CTRL+C to quit.")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	return nil
}

// hangoutCommand declares the /hangout command tree.
func hangoutCommand() *discordgo.ApplicationCommand {
	str := func(name, desc string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        name,
			Description: desc,
			Required:    required,
		}
	}
	// Every event-scoped subcommand takes either event_id or a message
	// link to the posted poll.
	eventRef := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "event_id",
			Description: "Event id",
		},
		str("message_link", "Link to the poll message (or its raw id)", false),
	}

	createOpts := []*discordgo.ApplicationCommandOption{
		str("title", "Event title", true),
		str("time1_start", "First option start (e.g. friday 19:00)", true),
		str("description", "Event description", false),
		str("deadline", "Voting deadline", false),
		str("time1_end", "First option end", false),
		str("time1_desc", "First option label", false),
	}
	for n := 2; n <= maxCreateSlots; n++ {
		createOpts = append(createOpts,
			str(fmt.Sprintf("time%d_start", n), fmt.Sprintf("Option %d start", n), false),
			str(fmt.Sprintf("time%d_end", n), fmt.Sprintf("Option %d end", n), false),
			str(fmt.Sprintf("time%d_desc", n), fmt.Sprintf("Option %d label", n), false),
		)
	}

	return &discordgo.ApplicationCommand{
		Name:        "hangout",
		Description: "Schedule hangouts by voting on time options",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Create a poll with up to 5 time options",
				Options:     createOpts,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "availability",
				Description: "Set or remove your vote on one option",
				Options: append([]*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "choice",
						Description: "Option number as shown on the poll",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "status",
						Description: "Your availability (default AVAILABLE)",
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Available", Value: "AVAILABLE"},
							{Name: "Maybe", Value: "MAYBE"},
							{Name: "Unavailable", Value: "UNAVAILABLE"},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "remove",
						Description: "Remove your vote for this option",
					},
				}, eventRef...),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "draft_create",
				Description: "Start a draft event with no options yet",
				Options: []*discordgo.ApplicationCommandOption{
					str("title", "Event title", true),
					str("description", "Event description", false),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "draft_propose",
				Description: "Propose a time option on a draft",
				Options: append([]*discordgo.ApplicationCommandOption{
					str("start", "Option start", true),
					str("end", "Option end", false),
					str("desc", "Option label", false),
				}, eventRef...),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "draft_finalize",
				Description: "Reduce a draft to its most popular option and open it",
				Options:     eventRef,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List events in this channel",
				Options: []*discordgo.ApplicationCommandOption{
					str("status", "Filter by status (ACTIVE, DRAFT, CLOSED)", false),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "View an event in your timezone",
				Options:     eventRef,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "close",
				Description: "Close voting on an event",
				Options:     eventRef,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "deadline",
				Description: "Set or change an event's voting deadline",
				Options: append([]*discordgo.ApplicationCommandOption{
					str("when", "Deadline time", true),
				}, eventRef...),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "timezone",
				Description: "Set your timezone for time parsing and display",
				Options: []*discordgo.ApplicationCommandOption{
					str("zone", "IANA zone name, e.g. Europe/Paris", true),
				},
			},
		},
	}
}
