// README: Conversation message model, change events and turn records.
package conversation

import (
	"context"
	"errors"
	"time"

	"wanderlust/internal/ai"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

const (
	GreetingText = "Hello traveler! I'm Wanders, your AI Tour Guide. Which city are you planning to visit? Just type a name like 'Paris', 'Tokyo', or 'New York'!"
	ApologyText  = "I'm sorry, I had trouble finding information for that location. Could you try another city?"
)

// AckText is the bot reply that accompanies a successful CityInfo.
func AckText(cityName string) string {
	return "I've found some great spots in " + cityName + "!"
}

var (
	ErrEmptyQuery   = errors.New("query is empty")
	ErrTurnInFlight = errors.New("a turn is already in flight")
)

// Message is one entry of the transcript. It is never mutated after it is appended.
type Message struct {
	ID        string       `json:"id"`
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	CityData  *ai.CityInfo `json:"cityData,omitempty"`
	IsLoading bool         `json:"isLoading,omitempty"`
}

func (m Message) clone() Message {
	if m.CityData != nil {
		info := *m.CityData
		info.Attractions = append([]ai.Attraction(nil), m.CityData.Attractions...)
		m.CityData = &info
	}
	return m
}

type ChangeType string

const (
	ChangeMessage ChangeType = "message"
	ChangeTyping  ChangeType = "typing"
)

// Change describes one transcript or in-flight update, in the order it happened.
type Change struct {
	Type     ChangeType `json:"type"`
	Message  *Message   `json:"message,omitempty"`
	IsTyping bool       `json:"isTyping"`
}

type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeFailed    Outcome = "failed"
)

// TurnResult is what one resolved turn appended.
type TurnResult struct {
	User    Message
	Bot     Message
	Outcome Outcome
	// Err is the client failure behind OutcomeFailed.
	Err error
}

// TurnRecord is the ledger entry handed to a TurnRecorder after each turn.
type TurnRecord struct {
	TurnID    string
	SessionID string
	Query     string
	CityName  string
	Outcome   Outcome
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// Notifier receives every Change. Failures are logged and never affect the turn.
type Notifier interface {
	Notify(ctx context.Context, change Change) error
}

// TurnRecorder receives one TurnRecord per resolved turn.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, rec TurnRecord) error
}
