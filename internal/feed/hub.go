// Package feed fans bookmark change events out to the owner's live
// subscribers (for example open event streams).
package feed

import (
	"context"
	"linkvault/pkg/domain"
	"linkvault/pkg/logger"
	"sync"

	"go.uber.org/zap"
)

// DefaultBufferSize is the per subscriber buffer used when NewHub gets a
// non-positive size.
const DefaultBufferSize = 16

// Subscription receives the events of a single user. Events are delivered on
// C until Close is called; C is closed afterwards.
type Subscription struct {
	C <-chan domain.BookmarkEvent

	ch     chan domain.BookmarkEvent
	hub    *Hub
	userID domain.UserID
	once   sync.Once
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub is an in-process publish/subscribe registry keyed by user. Publishing
// never blocks: a subscriber whose buffer is full misses the event. It is
// safe for concurrent use.
type Hub struct {
	bufferSize int

	mu     sync.RWMutex
	subs   map[domain.UserID]map[*Subscription]struct{}
	closed bool
}

// NewHub constructs a Hub with bufferSize events buffered per subscriber.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	return &Hub{
		bufferSize: bufferSize,
		subs:       make(map[domain.UserID]map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscriber for userID's events.
func (h *Hub) Subscribe(userID domain.UserID) *Subscription {
	ch := make(chan domain.BookmarkEvent, h.bufferSize)
	sub := &Subscription{C: ch, ch: ch, hub: h, userID: userID}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)

		return sub
	}
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}

	return sub
}

// Publish delivers ev to every subscriber of the bookmark owner and returns
// the number of subscribers that received it.
func (h *Hub) Publish(ctx context.Context, ev domain.BookmarkEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subs[ev.Bookmark.UserID] {
		select {
		case sub.ch <- ev:
			delivered++
		default:
			logger.Warn(ctx, "dropping bookmark event for slow subscriber",
				zap.Stringer("userID", ev.Bookmark.UserID),
				zap.String("type", string(ev.Type)))
		}
	}

	return delivered
}

// Subscribers returns the number of live subscriptions of userID.
func (h *Hub) Subscribers(userID domain.UserID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs[userID])
}

// Close ends every subscription, so readers of C see a closed channel, and
// makes later subscriptions start closed. Servers call it on shutdown to end
// long lived streams.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, userSubs := range h.subs {
		for sub := range userSubs {
			close(sub.ch)
		}
	}
	h.subs = make(map[domain.UserID]map[*Subscription]struct{})
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userSubs, ok := h.subs[sub.userID]
	if !ok {
		// already closed by Close
		return
	}
	if _, ok := userSubs[sub]; !ok {
		return
	}
	delete(userSubs, sub)
	if len(userSubs) == 0 {
		delete(h.subs, sub.userID)
	}
	// no publisher holds the lock, so nobody can be sending on ch
	close(sub.ch)
}
