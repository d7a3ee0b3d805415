package speech

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vintervu/vintervu/internal/logger"
)

const announceQueue = 32

// Announcer speaks questions in the background. Announce never blocks the
// caller and failures are only logged.
type Announcer struct {
	synth   Synthesizer
	timeout time.Duration
	log     *zap.Logger

	mu      sync.Mutex
	closed  bool
	pending chan announcement
	done    chan struct{}
}

type announcement struct {
	sessionID string
	text      string
}

// NewAnnouncer starts the background worker. A non-positive timeout leaves
// synthesis unbounded.
func NewAnnouncer(synth Synthesizer, timeout time.Duration, log *zap.Logger) *Announcer {
	a := &Announcer{
		synth:   synth,
		timeout: timeout,
		log:     logger.OrNop(log),
		pending: make(chan announcement, announceQueue),
		done:    make(chan struct{}),
	}
	go a.processLoop()
	return a
}

// Announce queues text for synthesis. When the queue is full or the
// announcer is closed the announcement is dropped.
func (a *Announcer) Announce(sessionID, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	select {
	case a.pending <- announcement{sessionID: sessionID, text: text}:
	default:
		a.log.Debug("announcement dropped, queue full", logger.SessionField(sessionID))
	}
}

// Close stops accepting announcements and waits for queued ones to finish.
func (a *Announcer) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.pending)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *Announcer) processLoop() {
	defer close(a.done)
	for job := range a.pending {
		a.speak(job)
	}
}

func (a *Announcer) speak(job announcement) {
	ctx := context.Background()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	if err := a.synth.Synthesize(ctx, job.text); err != nil {
		a.log.Warn("speech synthesis failed",
			logger.SessionField(job.sessionID),
			zap.Error(err),
		)
	}
}
