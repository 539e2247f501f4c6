package discord

import (
	"context"

	"hangoutbot/internal/domain/entities"
	"hangoutbot/internal/ports/output"

	"github.com/bwmarrin/discordgo"
)

var _ output.Notifier = (*CloseNotifier)(nil)

// CloseNotifier refreshes the poll message when the auto-close job closes
// an event. Failures stay here; the close has already committed.
type CloseNotifier struct {
	session *discordgo.Session
	handler *Handler
}

func NewCloseNotifier(session *discordgo.Session, handler *Handler) *CloseNotifier {
	return &CloseNotifier{session: session, handler: handler}
}

func (n *CloseNotifier) EventClosed(ctx context.Context, event *entities.Event) {
	n.handler.refreshPollMessage(ctx, n.session, event.ID)
}
