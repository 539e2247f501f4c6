package domain

// Event statuses. SCHEDULED exists in stored data from an earlier schema
// revision; no code path produces or consumes it.
const (
	EventStatusDraft     = "DRAFT"
	EventStatusActive    = "ACTIVE"
	EventStatusClosed    = "CLOSED"
	EventStatusScheduled = "SCHEDULED"
)

// Availability statuses.
const (
	AvailabilityAvailable   = "AVAILABLE"
	AvailabilityMaybe       = "MAYBE"
	AvailabilityUnavailable = "UNAVAILABLE"
)
