package notify

import "sync"

// Feed is the locally held copy of one user's notifications. Poll results
// replace it wholesale: whatever the server says last wins over any
// provisional local flips.
type Feed struct {
	mu     sync.Mutex
	items  []Notification
	unread int
}

// Replace installs a server fetch as the new truth.
func (f *Feed) Replace(items []Notification, unread int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
	if unread < 0 {
		unread = 0
	}
	f.unread = unread
}

func (f *Feed) Items() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// MarkRead flips the item provisionally. Only an actual unread->read flip
// decrements the counter, and the counter never goes below zero.
func (f *Feed) MarkRead(id uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			if !f.items[i].IsRead {
				f.items[i].IsRead = true
				if f.unread > 0 {
					f.unread--
				}
			}
			return
		}
	}
}

func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i].IsRead = true
	}
	f.unread = 0
}
