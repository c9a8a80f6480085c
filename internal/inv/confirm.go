package inv

import (
	"fmt"
	"sync"
)

// Token identifies a pending confirmation request.
type Token string

type pendingRequest struct {
	token   Token
	message string
	action  func() error
}

// Confirmations implements a two-phase confirm-then-act protocol. A flow
// holds at most one pending request; issuing a new one abandons the previous
// request without running it. Nothing is mutated until Resolve is called
// with accepted set.
type Confirmations struct {
	idgen   IDGenerator
	mu      sync.Mutex
	pending *pendingRequest
}

// NewConfirmations creates an empty confirmation flow.
func NewConfirmations(idgen IDGenerator) *Confirmations {
	return &Confirmations{idgen: idgen}
}

// Request registers action behind a confirmation prompt and returns its token.
func (c *Confirmations) Request(message string, action func() error) Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := Token(c.idgen.New())
	c.pending = &pendingRequest{token: t, message: message, action: action}
	return t
}

// Message returns the prompt of the pending request identified by t.
func (c *Confirmations) Message(t Token) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || c.pending.token != t {
		return "", false
	}
	return c.pending.message, true
}

// Resolve settles the request identified by t. The action runs only when
// accepted is true; a declined request returns ErrDeclined.
func (c *Confirmations) Resolve(t Token, accepted bool) error {
	c.mu.Lock()
	p := c.pending
	if p == nil || p.token != t {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoPendingRequest, t)
	}
	c.pending = nil
	c.mu.Unlock()

	if !accepted {
		return ErrDeclined
	}
	return p.action()
}
