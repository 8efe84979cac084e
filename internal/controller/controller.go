package controller

import (
	"context"
	"strings"
	"sync"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/validation"

	"go.uber.org/zap"
)

// Listener is called after every state transition with the new snapshot. Listeners run
// outside the controller lock and may be called from different goroutines, so two
// notifications can arrive out of order; compare Snapshot.Seq to keep the latest.
type Listener func(Snapshot)

// Option configures a QuizRequestController.
type Option func(*QuizRequestController)

// WithValidator replaces validation.ValidateWikipediaURL.
func WithValidator(validate func(string) error) Option {
	return func(c *QuizRequestController) {
		c.validate = validate
	}
}

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(c *QuizRequestController) {
		c.logger = l
	}
}

// QuizRequestController drives one quiz-generation control: it owns the input text and
// the request state, validates on submit and calls the QuizService.
//
// A Submit while a request is pending is ignored, so at most one call is in flight.
type QuizRequestController struct {
	service  domain.QuizService
	validate func(string) error
	logger   *zap.Logger

	mu         sync.Mutex
	input      string
	state      RequestState
	generation uint64
	seq        uint64
	cancel     context.CancelFunc
	closed     bool
	nextID     int
	listeners  map[int]Listener
}

// New creates a controller in the Idle state with empty input.
func New(service domain.QuizService, opts ...Option) *QuizRequestController {
	c := &QuizRequestController{
		service:   service,
		validate:  validation.ValidateWikipediaURL,
		state:     Idle{},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get()
	}
	return c
}

// OnInputChange replaces the input text. No validation happens here.
func (c *QuizRequestController) OnInputChange(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.input = text
	snap, listeners := c.transitionLocked()
	c.mu.Unlock()

	notify(listeners, snap)
}

// Submit validates the current input and, if valid, starts a QuizService call.
// The returned channel is closed once this submission has settled; for a rejected
// input or an ignored submit it is already closed.
func (c *QuizRequestController) Submit(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(done)
		return done
	}
	if inFlight, busy := c.state.(InFlight); busy {
		c.mu.Unlock()
		c.logger.Debug("Submit ignored while a request is pending", zap.String("url", inFlight.URL))
		close(done)
		return done
	}

	input := c.input
	if err := c.validate(input); err != nil {
		c.state = Failed{Message: err.Error(), Kind: KindValidation}
		snap, listeners := c.transitionLocked()
		c.mu.Unlock()

		c.logger.Debug("Submission rejected by validator", zap.String("input", input), zap.String("reason", err.Error()))
		notify(listeners, snap)
		close(done)
		return done
	}

	url := strings.TrimSpace(input)
	c.generation++
	gen := c.generation
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = InFlight{URL: url}
	snap, listeners := c.transitionLocked()
	c.mu.Unlock()

	c.logger.Info("Quiz generation requested", zap.String("url", url), zap.Uint64("generation", gen))
	notify(listeners, snap)

	go c.run(runCtx, cancel, gen, url, done)
	return done
}

func (c *QuizRequestController) run(ctx context.Context, cancel context.CancelFunc, gen uint64, url string, done chan struct{}) {
	defer close(done)
	defer cancel()

	next := c.call(ctx, url)

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("Dropping stale quiz generation result", zap.String("url", url), zap.Uint64("generation", gen))
		return
	}
	c.state = next
	c.cancel = nil
	snap, listeners := c.transitionLocked()
	c.mu.Unlock()

	if f, failed := next.(Failed); failed {
		c.logger.Warn("Quiz generation failed", zap.String("url", url), zap.String("message", f.Message))
	} else {
		c.logger.Info("Quiz generation succeeded", zap.String("url", url))
	}
	notify(listeners, snap)
}

// call invokes the service and folds every outcome, including a panic, into a settled state.
func (c *QuizRequestController) call(ctx context.Context, url string) (next RequestState) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("QuizService panicked", zap.String("url", url), zap.Any("panic", r))
			next = Failed{Message: DefaultFailureMessage, Kind: KindService}
		}
	}()

	quiz, err := c.service.Generate(ctx, url)
	switch {
	case err != nil:
		return Failed{Message: failureMessage(err), Kind: KindService}
	case quiz == nil:
		return Failed{Message: DefaultFailureMessage, Kind: KindService}
	default:
		return Succeeded{Quiz: quiz}
	}
}

// State returns a snapshot of the input and request state.
func (c *QuizRequestController) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers l for state transitions and returns a function that removes it.
func (c *QuizRequestController) Subscribe(l Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Close unmounts the control. A pending call is cancelled and its outcome dropped;
// later calls to OnInputChange and Submit do nothing.
func (c *QuizRequestController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.listeners = make(map[int]Listener)
}

func (c *QuizRequestController) snapshotLocked() Snapshot {
	return Snapshot{Seq: c.seq, Input: c.input, Request: c.state}
}

// transitionLocked records a state change and returns what to deliver to listeners.
func (c *QuizRequestController) transitionLocked() (Snapshot, []Listener) {
	c.seq++
	return c.snapshotLocked(), c.listenersLocked()
}

func (c *QuizRequestController) listenersLocked() []Listener {
	out := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, snap Snapshot) {
	for _, l := range listeners {
		l(snap)
	}
}

func failureMessage(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return DefaultFailureMessage
	}
	return msg
}
