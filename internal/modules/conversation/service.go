// README: Conversation controller; runs one turn at a time against the city-info client.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wanderlust/internal/ai"
	"wanderlust/internal/observability"
)

// Options carries the optional collaborators of a Service.
type Options struct {
	Notifier Notifier
	Recorder TurnRecorder
	// Timeout bounds the client call; zero means no deadline of our own.
	Timeout time.Duration

	Now   func() time.Time
	NewID func() string
}

// Service is the conversation controller for a single Session.
type Service struct {
	session *Session
	// notifyMu makes Notifier order match the order the session applied changes.
	notifyMu sync.Mutex

	provider ai.CityInfoProvider
	notifier Notifier
	recorder TurnRecorder
	timeout  time.Duration
	now      func() time.Time
	newID    func() string
}

// NewService creates a controller with a fresh, greeted Session.
func NewService(provider ai.CityInfoProvider, opts Options) *Service {
	s := &Service{
		provider: provider,
		notifier: opts.Notifier,
		recorder: opts.Recorder,
		timeout:  opts.Timeout,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	s.session = NewSession(s.newID(), Message{
		ID:        s.newID(),
		Role:      RoleBot,
		Content:   GreetingText,
		Timestamp: s.now(),
	})
	return s
}

func (s *Service) Session() *Session {
	return s.session
}

func (s *Service) Messages() []Message {
	return s.session.Messages()
}

func (s *Service) Typing() bool {
	return s.session.Typing()
}

func (s *Service) Draft() string {
	return s.session.Draft()
}

func (s *Service) SetDraft(text string) {
	s.session.SetDraft(text)
}

// Submit runs one full turn and returns what it appended.
// ErrEmptyQuery and ErrTurnInFlight mean nothing was appended and the flag is unchanged.
func (s *Service) Submit(ctx context.Context, query string) (TurnResult, error) {
	user, err := s.begin(ctx, query)
	if err != nil {
		return TurnResult{}, err
	}
	return s.complete(ctx, user), nil
}

// Start is Submit with the client call moved to a goroutine. The user message is
// already appended when Start returns; the channel yields the result once.
func (s *Service) Start(ctx context.Context, query string) (<-chan TurnResult, error) {
	user, err := s.begin(ctx, query)
	if err != nil {
		return nil, err
	}

	done := make(chan TurnResult, 1)
	go func() {
		defer close(done)
		done <- s.complete(ctx, user)
	}()
	return done, nil
}

func (s *Service) begin(ctx context.Context, query string) (Message, error) {
	if strings.TrimSpace(query) == "" {
		return Message{}, ErrEmptyQuery
	}

	user := Message{
		ID:        s.newID(),
		Role:      RoleUser,
		Content:   query,
		Timestamp: s.now(),
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if err := s.session.begin(user); err != nil {
		return Message{}, err
	}

	s.notify(ctx, Change{Type: ChangeMessage, Message: &user, IsTyping: true})
	s.notify(ctx, Change{Type: ChangeTyping, IsTyping: true})
	return user, nil
}

// complete resolves the turn. It always appends exactly one bot message and lowers the flag.
func (s *Service) complete(ctx context.Context, user Message) TurnResult {
	// The turn runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	log := observability.LoggerFromContext(ctx).With(
		"session_id", s.session.ID(),
		"turn_id", user.ID,
	)

	started := s.now()
	info, err := s.fetch(ctx, user.Content)

	result := TurnResult{User: user}
	bot := Message{
		ID:        s.newID(),
		Role:      RoleBot,
		Timestamp: s.now(),
	}
	if err != nil {
		bot.Content = ApologyText
		result.Outcome = OutcomeFailed
		result.Err = err
		log.Warn("turn failed", "error", err)
	} else {
		bot.Content = AckText(info.CityName)
		bot.CityData = info
		result.Outcome = OutcomeDelivered
		log.Info("turn delivered", "city", info.CityName, "attractions", len(info.Attractions))
	}
	result.Bot = bot

	s.notifyMu.Lock()
	s.session.finish(bot)
	s.notify(ctx, Change{Type: ChangeMessage, Message: &bot, IsTyping: false})
	s.notify(ctx, Change{Type: ChangeTyping, IsTyping: false})
	s.notifyMu.Unlock()

	s.record(ctx, user, result, started)
	return result
}

// fetch calls the client, converting a panic into a failure so the turn still resolves.
func (s *Service) fetch(ctx context.Context, query string) (info *ai.CityInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = &ai.ServiceError{Op: "generate", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if s.provider == nil {
		return nil, &ai.ServiceError{Op: "generate", Err: fmt.Errorf("no city info provider configured")}
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	info, err = s.provider.FetchCityInfo(ctx, query)
	if err == nil && info == nil {
		err = &ai.ServiceError{Op: "decode", Err: ai.ErrEmptyResponse}
	}
	return info, err
}

func (s *Service) notify(ctx context.Context, change Change) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, change); err != nil {
		observability.LoggerFromContext(ctx).Warn("transcript notify failed", "type", change.Type, "error", err)
	}
}

func (s *Service) record(ctx context.Context, user Message, result TurnResult, started time.Time) {
	if s.recorder == nil {
		return
	}
	rec := TurnRecord{
		TurnID:    user.ID,
		SessionID: s.session.ID(),
		Query:     user.Content,
		Outcome:   result.Outcome,
		StartedAt: started,
		Duration:  s.now().Sub(started),
	}
	if result.Bot.CityData != nil {
		rec.CityName = result.Bot.CityData.CityName
	}
	if result.Err != nil {
		rec.Error = result.Err.Error()
	}
	if err := s.recorder.RecordTurn(ctx, rec); err != nil {
		observability.LoggerFromContext(ctx).Warn("turn record failed", "turn_id", rec.TurnID, "error", err)
	}
}
