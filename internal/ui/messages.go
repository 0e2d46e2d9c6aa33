package ui

import (
	"time"

	"collegefinder/internal/domain"
	"collegefinder/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// detailMsg carries a fetched college detail
type detailMsg struct {
	slug   string
	detail domain.CollegeDetail
	err    error
}

// clearStatusMsg clears a status message once it is stale
type clearStatusMsg struct {
	id int
}

// statusTTL is how long a status message stays up
const statusTTL = 4 * time.Second
