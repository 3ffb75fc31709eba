package remote

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/logger"
)

// Pusher mirrors snapshots in the background. Enqueue never blocks and only
// the latest pending snapshot is kept; a failed push is logged and dropped so
// local state is never held up by the remote.
type Pusher struct {
	mirror  Mirror
	userID  string
	timeout time.Duration

	mu      sync.Mutex
	pending *Document
	closed  bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	pushed atomic.Int64
	failed atomic.Int64
}

// NewPusher starts the background worker. Call Close to drain it.
func NewPusher(mirror Mirror, userID string, timeout time.Duration) *Pusher {
	p := &Pusher{
		mirror:  mirror,
		userID:  userID,
		timeout: timeout,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Enqueue schedules doc for upload, replacing any snapshot not yet sent.
func (p *Pusher) Enqueue(doc Document) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.pending = &doc
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Close stops accepting snapshots, sends the last pending one and waits.
func (p *Pusher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.done)
	p.wg.Wait()
}

// Stats returns how many pushes succeeded and failed so far.
func (p *Pusher) Stats() (pushed, failed int64) {
	return p.pushed.Load(), p.failed.Load()
}

func (p *Pusher) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.wake:
			p.flush()
		case <-p.done:
			p.flush()
			return
		}
	}
}

func (p *Pusher) flush() {
	p.mu.Lock()
	doc := p.pending
	p.pending = nil
	p.mu.Unlock()
	if doc == nil {
		return
	}

	timeout := p.timeout
	if timeout <= 0 {
		timeout = constants.DefaultPushTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := p.mirror.Push(ctx, p.userID, *doc); err != nil {
		p.failed.Add(1)
		logger.Warn("Remote push failed", "mirror", p.mirror.Name(), "user", p.userID, "error", err)
		return
	}
	p.pushed.Add(1)
	logger.Debug("Remote push succeeded", "mirror", p.mirror.Name(), "updatedAt", doc.UpdatedAt)
}
