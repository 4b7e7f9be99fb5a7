// Package wallet is the bridge to the player's key custody. It is the only
// component allowed to touch key material: everything else hands it an
// assembled payload and gets back a signature.
package wallet

import (
	"context"
	"errors"
	"sync"
)

// ErrSigningDeclined is returned when the user refuses to sign. Callers
// must treat it as a cancellation, not a fault.
var ErrSigningDeclined = errors.New("wallet: signing declined by user")

// ErrNotConnected is returned when no signer is attached to the session.
var ErrNotConnected = errors.New("wallet: no wallet connected")

// Signer signs assembled transaction payloads for one account.
type Signer interface {
	// Address returns the signer's account address.
	Address() string

	// SignTransaction signs the assembled payload and returns the signed
	// envelope bytes.
	SignTransaction(ctx context.Context, payload []byte) ([]byte, error)
}

// EventKind enumerates connection lifecycle events.
type EventKind int

const (
	EventConnected EventKind = iota
	EventAddressChanged
	EventDisconnected
)

// Event notifies subscribers of a wallet session change.
type Event struct {
	Kind    EventKind
	Address string // new active address; empty on disconnect
}

// Session is the process-wide wallet session: at most one active signer,
// with lifecycle events fanned out to subscribers. Core logic depends on
// the Signer interface and the event stream, not on this concrete type, so
// tests substitute both freely.
type Session struct {
	mu     sync.Mutex
	signer Signer
	subs   []chan Event
}

// NewSession creates an empty (disconnected) session.
func NewSession() *Session {
	return &Session{}
}

var (
	defaultSession *Session
	defaultOnce    sync.Once
)

// Default returns the process-wide session, creating it on first use.
func Default() *Session {
	defaultOnce.Do(func() {
		defaultSession = NewSession()
	})
	return defaultSession
}

// Connect attaches a signer and announces it. Attaching a different signer
// while connected is announced as an address change.
func (s *Session) Connect(signer Signer) {
	s.mu.Lock()
	prev := s.signer
	s.signer = signer
	s.mu.Unlock()

	if prev == nil {
		s.publish(Event{Kind: EventConnected, Address: signer.Address()})
	} else if prev.Address() != signer.Address() {
		s.publish(Event{Kind: EventAddressChanged, Address: signer.Address()})
	}
}

// Disconnect detaches the signer and announces it.
func (s *Session) Disconnect() {
	s.mu.Lock()
	had := s.signer != nil
	s.signer = nil
	s.mu.Unlock()

	if had {
		s.publish(Event{Kind: EventDisconnected})
	}
}

// Subscribe returns a channel of lifecycle events. Delivery is best-effort:
// a subscriber that stops draining loses oldest events rather than blocking
// the session.
func (s *Session) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Session) publish(evt Event) {
	s.mu.Lock()
	subs := make([]chan Event, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
			// Buffer full: drop the oldest and retry, best effort.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- evt:
			default:
			}
		}
	}
}

// Address returns the active account address, or "" when disconnected.
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signer == nil {
		return ""
	}
	return s.signer.Address()
}

// SignTransaction delegates to the attached signer.
func (s *Session) SignTransaction(ctx context.Context, payload []byte) ([]byte, error) {
	s.mu.Lock()
	signer := s.signer
	s.mu.Unlock()
	if signer == nil {
		return nil, ErrNotConnected
	}
	return signer.SignTransaction(ctx, payload)
}
