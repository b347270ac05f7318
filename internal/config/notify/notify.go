// Package notify delivers configuration change notifications.
//
// Observers subscribe either to every change or to a single setting key.
// Delivery is synchronous, on the goroutine that reported the change.
package notify

import (
	"slices"
	"sync"
)

// ChangeType says what produced a Change.
type ChangeType uint8

const (
	// ChangeSet is a single override made with Config.Set.
	ChangeSet ChangeType = iota

	// ChangeReload is a re-read of the settings file and environment.
	ChangeReload
)

func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	}
	return "unknown"
}

// Change describes settings whose effective value moved.
type Change struct {
	Type ChangeType

	// Keys lists the affected settings, sorted. A set names exactly one.
	// A reload that changed nothing has no keys.
	Keys []string

	// Old and New are the values of a set; they are nil for reloads.
	Old, New any

	// Source is the settings file for reloads and "set" otherwise.
	Source string
}

// Affects reports whether key is among the changed settings.
func (c Change) Affects(key string) bool {
	return slices.Contains(c.Keys, key)
}

// Observer receives changes.
type Observer func(change Change)

// Subscription is returned by Subscribe and SubscribeKey.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe stops delivery. It is safe to call on a nil Subscription
// and more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.remove(s.id)
	}
}

type entry struct {
	id       uint64
	key      string
	observer Observer
}

// Notifier fans changes out to observers in subscription order.
type Notifier struct {
	mu      sync.RWMutex
	entries []entry
	nextID  uint64
}

func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for every change, including reloads
// that changed nothing.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.add("", observer)
}

// SubscribeKey registers an observer for changes that affect key.
func (n *Notifier) SubscribeKey(key string, observer Observer) *Subscription {
	return n.add(key, observer)
}

func (n *Notifier) add(key string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.entries = append(n.entries, entry{id: n.nextID, key: key, observer: observer})
	return &Subscription{id: n.nextID, notifier: n}
}

// Notify delivers change. Observers may subscribe or unsubscribe while
// being called; the change goes to the set registered when Notify began.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	var targets []Observer
	for _, e := range n.entries {
		if e.key == "" || change.Affects(e.key) {
			targets = append(targets, e.observer)
		}
	}
	n.mu.RUnlock()

	for _, o := range targets {
		o(change)
	}
}

// Set reports an override of key from old to value.
func (n *Notifier) Set(key string, old, value any) {
	n.Notify(Change{Type: ChangeSet, Keys: []string{key}, Old: old, New: value, Source: "set"})
}

// Reload reports a re-read of source that changed keys.
func (n *Notifier) Reload(source string, keys []string) {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	n.Notify(Change{Type: ChangeReload, Keys: keys, Source: source})
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = slices.DeleteFunc(n.entries, func(e entry) bool { return e.id == id })
}
