package discord

import (
	"hangoutbot/internal/ports/input"
	"hangoutbot/internal/ports/output"
)

// Handler handles Discord interactions using the scheduling use case.
type Handler struct {
	scheduling input.SchedulingUseCase
	translator output.T
}

// NewHandler creates a Handler.
func NewHandler(scheduling input.SchedulingUseCase, translator output.T) *Handler {
	return &Handler{
		scheduling: scheduling,
		translator: translator,
	}
}

func (h *Handler) t(key string, data map[string]any) string {
	return h.translator.T("en", key, data)
}
