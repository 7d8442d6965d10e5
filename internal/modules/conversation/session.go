package conversation

import "sync"

// Session owns the transcript, the in-flight flag and the pending input.
// All mutation goes through begin and finish.
type Session struct {
	id string

	mu       sync.Mutex
	messages []Message
	typing   bool
	draft    string
}

// NewSession seeds the transcript with greeting.
func NewSession(id string, greeting Message) *Session {
	return &Session{
		id:       id,
		messages: []Message{greeting.clone()},
	}
}

func (s *Session) ID() string {
	return s.id
}

// Messages returns a copy of the transcript in creation order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.clone()
	}
	return out
}

// Typing reports whether a turn is in flight.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	s.mu.Unlock()
}

// begin appends the user message, clears the draft and raises the flag in one step.
func (s *Session) begin(user Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.typing {
		return ErrTurnInFlight
	}
	s.messages = append(s.messages, user.clone())
	s.draft = ""
	s.typing = true
	return nil
}

// finish appends the bot message and then lowers the flag.
func (s *Session) finish(bot Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, bot.clone())
	s.typing = false
}
