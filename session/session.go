package session

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cortexhub/cortex"
)

// DefaultErrorResetDelay is how long the error phase persists before the
// session returns to idle on its own.
const DefaultErrorResetDelay = 3 * time.Second

// IdentityProvider returns the tenant id for an outgoing request. It is
// consulted at send time, never cached, so a tenant switch between sends
// takes effect immediately.
type IdentityProvider func() string

// Session drives streaming exchanges against a gateway and owns all
// conversation state: the message log, the phase, the status line, and
// the last error. All methods are safe for concurrent use.
//
// One exchange is in flight at a time. Starting a new exchange or
// clearing the conversation supersedes the previous one: its goroutine
// may still be unwinding, but every mutation it attempts is fenced by a
// generation counter and lands nowhere.
type Session struct {
	gateway  cortex.Gateway
	identity IdentityProvider

	businessType string
	tone         string
	recordID     string

	classifier      StatusClassifier
	flushScheduler  FlushScheduler
	errorResetDelay time.Duration
	notify          func()

	mu             sync.Mutex
	store          *cortex.Store
	machine        machine
	sched          *renderScheduler
	statusMessage  string
	maskedEntities []string
	lastErr        *cortex.StreamError
	gen            uint64
	cancel         context.CancelFunc
	resetTimer     *time.Timer
}

// Option configures a Session.
type Option func(*Session)

// WithBusinessType sets the business type sent with every request.
func WithBusinessType(bt string) Option {
	return func(s *Session) { s.businessType = bt }
}

// WithTone sets the response tone sent with every request.
func WithTone(tone string) Option {
	return func(s *Session) { s.tone = tone }
}

// WithRecordID pins the conversation to a record.
func WithRecordID(id string) Option {
	return func(s *Session) { s.recordID = id }
}

// WithStatusClassifier replaces the status message classifier.
func WithStatusClassifier(c StatusClassifier) Option {
	return func(s *Session) { s.classifier = c }
}

// WithFlushScheduler replaces the render flush scheduler.
func WithFlushScheduler(fs FlushScheduler) Option {
	return func(s *Session) { s.flushScheduler = fs }
}

// WithErrorResetDelay sets how long the error phase lasts.
func WithErrorResetDelay(d time.Duration) Option {
	return func(s *Session) { s.errorResetDelay = d }
}

// WithNotify registers a callback invoked after every observable state
// change. It runs outside the session lock.
func WithNotify(fn func()) Option {
	return func(s *Session) { s.notify = fn }
}

// New creates a Session backed by gw. identity supplies the tenant id
// for each send.
func New(gw cortex.Gateway, identity IdentityProvider, opts ...Option) *Session {
	s := &Session{
		gateway:         gw,
		identity:        identity,
		store:           cortex.NewStore(),
		classifier:      DefaultStatusClassifier,
		flushScheduler:  TimerScheduler(16 * time.Millisecond),
		errorResetDelay: DefaultErrorResetDelay,
		notify:          func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Messages returns a snapshot of the conversation in order.
func (s *Session) Messages() []cortex.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Messages()
}

// Phase returns the current conversation phase.
func (s *Session) Phase() cortex.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Phase()
}

// Active reports whether an exchange is in flight.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Phase().Active()
}

// StatusMessage returns the latest producer status line, verbatim.
func (s *Session) StatusMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusMessage
}

// MaskedEntities returns the entity types masked in the current
// exchange's prompt.
func (s *Session) MaskedEntities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.maskedEntities))
	copy(out, s.maskedEntities)
	return out
}

// LastError returns the most recent stream error, or nil.
func (s *Session) LastError() *cortex.StreamError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Restore seeds the conversation with previously persisted messages.
// It only applies while idle; transcript resume happens at startup,
// before any exchange.
func (s *Session) Restore(msgs []cortex.Message) {
	s.mu.Lock()
	if s.machine.Phase() != cortex.PhaseIdle {
		s.mu.Unlock()
		return
	}
	for _, m := range msgs {
		s.store.Append(m)
	}
	s.mu.Unlock()
	s.notify()
}

// SendMessage starts a new exchange. Blank queries are ignored, as are
// sends while a previous exchange is in flight or the error phase is
// still showing.
func (s *Session) SendMessage(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.mu.Lock()
	if !s.machine.Begin() {
		s.mu.Unlock()
		return
	}
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}

	userID := uuid.NewString()
	asstID := uuid.NewString()
	s.store.Append(cortex.Message{
		ID:        userID,
		Role:      cortex.RoleUser,
		Content:   query,
		CreatedAt: time.Now(),
		Phase:     cortex.MessageComplete,
	})
	s.store.Append(cortex.Message{
		ID:        asstID,
		Role:      cortex.RoleAssistant,
		CreatedAt: time.Now(),
		Phase:     cortex.MessageStreaming,
	})

	s.statusMessage = ""
	s.maskedEntities = nil
	s.lastErr = nil
	s.gen++
	gen := s.gen

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	sched := newRenderScheduler(s.flushScheduler, func(text string) {
		s.appendChunk(gen, asstID, text)
	})
	s.sched = sched

	req := cortex.Request{
		Query:        query,
		TenantID:     s.identity(),
		BusinessType: s.businessType,
		RecordID:     s.recordID,
		Tone:         s.tone,
		SessionID:    uuid.NewString(),
	}
	s.mu.Unlock()

	s.notify()
	go s.run(ctx, gen, userID, asstID, sched, req)
}

// StopStream cancels the in-flight exchange. The partial response is
// kept and finalized; no error is surfaced.
func (s *Session) StopStream() {
	s.mu.Lock()
	cancel := s.cancel
	active := s.machine.Phase().Active()
	s.mu.Unlock()
	if active && cancel != nil {
		cancel()
	}
}

// ClearMessages discards the conversation and resets every piece of
// session state. An in-flight exchange is cancelled and its remaining
// output dropped.
func (s *Session) ClearMessages() {
	s.mu.Lock()
	s.gen++
	cancel := s.cancel
	sched := s.sched
	s.cancel = nil
	s.sched = nil
	s.store.Clear()
	s.machine.Reset()
	s.statusMessage = ""
	s.maskedEntities = nil
	s.lastErr = nil
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sched != nil {
		sched.Discard()
	}
	s.notify()
}

func (s *Session) run(ctx context.Context, gen uint64, userID, asstID string, sched *renderScheduler, req cortex.Request) {
	stream, err := s.gateway.Stream(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			s.finishCancelled(gen, asstID, sched)
			return
		}
		s.fail(gen, asstID, sched, cortex.Classify(err))
		return
	}
	defer stream.Close()

	for {
		ev, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil {
				s.finishCancelled(gen, asstID, sched)
				return
			}
			if err == io.EOF {
				s.fail(gen, asstID, sched, &cortex.StreamError{
					Kind:    cortex.KindConnectionFailure,
					Message: "Connection lost: the response ended unexpectedly.",
				})
				return
			}
			s.fail(gen, asstID, sched, cortex.Classify(err))
			return
		}

		switch ev := ev.(type) {
		case cortex.EventShieldActive:
			s.applyShield(gen, userID, ev)
		case cortex.EventStatus:
			s.applyStatus(gen, ev.Message)
		case cortex.EventChunk:
			if ev.Content != "" {
				s.markWriting(gen)
				sched.Append(ev.Content)
			}
		case cortex.EventDone:
			s.finishDone(gen, asstID, sched, ev)
			return
		case cortex.EventError:
			s.fail(gen, asstID, sched, &cortex.StreamError{
				Kind:    cortex.KindApplicationError,
				Message: ev.Message,
			})
			return
		}
	}
}

// appendChunk is the scheduler sink: it lands coalesced text on the
// assistant message unless the exchange has been superseded.
func (s *Session) appendChunk(gen uint64, asstID, text string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.store.AppendContent(asstID, text)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) applyShield(gen uint64, userID string, ev cortex.EventShieldActive) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.store.Patch(userID, cortex.MessagePatch{
		Privacy: &cortex.PrivacyReceipt{
			Redacted:        ev.Redacted,
			MaskedEntities:  ev.MaskedEntities,
			SanitizedPrompt: ev.SanitizedPrompt,
		},
	})
	s.maskedEntities = ev.MaskedEntities
	s.machine.Advance(cortex.PhaseFetching)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) applyStatus(gen uint64, message string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.statusMessage = message
	if phase, ok := s.classifier(message); ok {
		s.machine.Advance(phase)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Session) markWriting(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	if s.machine.Phase() == cortex.PhaseWriting {
		s.mu.Unlock()
		return
	}
	s.machine.Advance(cortex.PhaseWriting)
	s.statusMessage = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Session) finishDone(gen uint64, asstID string, sched *renderScheduler, ev cortex.EventDone) {
	sched.Flush()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	phase := cortex.MessageComplete
	patch := cortex.MessagePatch{Phase: &phase}
	if ev.Usage != (cortex.Usage{}) {
		usage := ev.Usage
		patch.Usage = &usage
	}
	s.store.Patch(asstID, patch)
	s.machine.Reset()
	s.statusMessage = ""
	s.cancel = nil
	s.mu.Unlock()
	s.notify()
}

// finishCancelled finalizes a stopped exchange: buffered text is flushed,
// the partial response is marked complete, and no error is raised.
func (s *Session) finishCancelled(gen uint64, asstID string, sched *renderScheduler) {
	sched.Flush()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	phase := cortex.MessageComplete
	s.store.Patch(asstID, cortex.MessagePatch{Phase: &phase})
	s.machine.Reset()
	s.statusMessage = ""
	s.cancel = nil
	s.mu.Unlock()
	s.notify()
}

// fail finalizes a broken exchange. Buffered text is flushed first so the
// partial response survives, then the error marker is appended and the
// message frozen.
func (s *Session) fail(gen uint64, asstID string, sched *renderScheduler, se *cortex.StreamError) {
	sched.Flush()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	marker := "[error] " + se.Message
	if m, ok := s.store.Get(asstID); ok && m.Content != "" {
		marker = "\n\n" + marker
	}
	s.store.AppendContent(asstID, marker)
	phase := cortex.MessageError
	s.store.Patch(asstID, cortex.MessagePatch{Phase: &phase})
	s.lastErr = se
	s.machine.Fail()
	s.statusMessage = ""
	s.cancel = nil
	s.resetTimer = time.AfterFunc(s.errorResetDelay, func() {
		s.autoReset(gen)
	})
	s.mu.Unlock()
	s.notify()
}

// autoReset returns the session to idle once the error display window
// has elapsed.
func (s *Session) autoReset(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.machine.Phase() != cortex.PhaseError {
		s.mu.Unlock()
		return
	}
	s.machine.Reset()
	s.lastErr = nil
	s.resetTimer = nil
	s.mu.Unlock()
	s.notify()
}
