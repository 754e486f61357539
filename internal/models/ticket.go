// ABOUTME: Ticket is a single routed message handed to a destination channel
// ABOUTME: DispatchOutcome reports which route a dispatch used and whether delivery worked
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ticket is one inbound request after routing
type Ticket struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Route      RouteName `json:"route"`
	Reasoning  string    `json:"reasoning,omitempty"`
	Fallback   bool      `json:"fallback"`
	ReceivedAt time.Time `json:"received_at"`
}

// NewTicket creates a Ticket for the given text and resolved route
func NewTicket(text string, route RouteName) (*Ticket, error) {
	if route == "" {
		return nil, errors.New("ticket route cannot be empty")
	}
	return &Ticket{
		ID:         GenerateTicketID(),
		Text:       text,
		Route:      route,
		ReceivedAt: time.Now().UTC(),
	}, nil
}

// GenerateTicketID generates a unique ticket identifier
func GenerateTicketID() string {
	return fmt.Sprintf("ticket_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}

// DispatchOutcome is the result of one dispatch cycle
type DispatchOutcome struct {
	TicketID  string    `json:"ticket_id"`
	Route     RouteName `json:"route"`
	Fallback  bool      `json:"fallback"`
	Delivered bool      `json:"delivered"`
	Reasoning string    `json:"reasoning,omitempty"`
	// Cause explains a fallback, e.g. a classifier failure. Diagnostic only.
	Cause error `json:"-"`
}

// CauseString returns the fallback cause as text, or "" when there was none
func (o DispatchOutcome) CauseString() string {
	if o.Cause == nil {
		return ""
	}
	return o.Cause.Error()
}
