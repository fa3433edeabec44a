package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultInterval = 5 * time.Second

// Poller keeps one user's Feed fresh on a fixed interval. The server fetch
// is authoritative; MarkRead flips local state optimistically and a failed
// remote acknowledgement is logged, not rolled back.
type Poller struct {
	client   *Client
	userID   uint
	interval time.Duration
	feed     *Feed
	log      *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(client *Client, userID uint, interval time.Duration, log *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		client:   client,
		userID:   userID,
		interval: interval,
		feed:     &Feed{},
		log:      log,
		done:     make(chan struct{}),
	}
}

func (p *Poller) Feed() *Feed {
	return p.feed
}

// Start fetches once immediately, then on every tick until the context is
// cancelled. A fetch that completes after cancellation is discarded so a
// stopped poller never writes.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
}

func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	p.fetch(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx)
		}
	}
}

func (p *Poller) fetch(ctx context.Context) {
	items, err := p.client.FetchFeed(ctx, p.userID)
	if err != nil {
		p.log.Warn("notification_fetch_failed", "user_id", p.userID, "error", err)
		return
	}
	count, err := p.client.FetchCount(ctx, p.userID)
	if err != nil {
		p.log.Warn("notification_count_failed", "user_id", p.userID, "error", err)
		return
	}
	if ctx.Err() != nil {
		return
	}
	p.feed.Replace(items, count)
}

// MarkRead applies the optimistic local flip first; the remote ack may fail
// and the next poll reconciles either way.
func (p *Poller) MarkRead(ctx context.Context, id uint) {
	p.feed.MarkRead(id)
	if err := p.client.MarkRead(ctx, p.userID, id); err != nil {
		p.log.Warn("notification_mark_read_failed", "user_id", p.userID, "id", id, "error", err)
	}
}

func (p *Poller) MarkAllRead(ctx context.Context) {
	p.feed.MarkAllRead()
	if err := p.client.MarkAllRead(ctx, p.userID); err != nil {
		p.log.Warn("notification_mark_all_read_failed", "user_id", p.userID, "error", err)
	}
}

// Center hands out one running poller per user and stops them all on
// shutdown.
type Center struct {
	client   *Client
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	pollers map[uint]*Poller
}

func NewCenter(client *Client, interval time.Duration, log *slog.Logger) *Center {
	return &Center{
		client:   client,
		interval: interval,
		log:      log,
		pollers:  make(map[uint]*Poller),
	}
}

func (c *Center) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = ctx
}

func (c *Center) PollerFor(userID uint) *Poller {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pollers[userID]; ok {
		return p
	}
	p := NewPoller(c.client, userID, c.interval, c.log)
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	p.Start(ctx)
	c.pollers[userID] = p
	return p
}

func (c *Center) Shutdown() {
	c.mu.Lock()
	pollers := make([]*Poller, 0, len(c.pollers))
	for _, p := range c.pollers {
		pollers = append(pollers, p)
	}
	c.pollers = make(map[uint]*Poller)
	c.mu.Unlock()

	for _, p := range pollers {
		p.Stop()
	}
}
