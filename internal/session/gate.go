// Package session models the client-side view of an admin session: the
// access gate that re-derives authorization on every admin surface render,
// and the forced sign-out countdown triggered by a self-update.
package session

import (
	"sync"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

// Decision is the gate's authorization outcome for the current render.
type Decision int

const (
	// Pending means the check has not resolved yet. Callers must render a
	// neutral loading state and never the protected content.
	Pending Decision = iota
	Allowed
	Denied
)

// Gate re-derives admin authorization from session claims per render. A
// fresh gate starts Pending and only leaves that state through Resolve.
type Gate struct {
	mu       sync.Mutex
	decision Decision
}

func NewGate() *Gate {
	return &Gate{decision: Pending}
}

// Resolve computes and records the decision for the given claims. Nil
// claims or a role outside the admin set deny access; there is no state in
// which ambiguity grants it.
func (g *Gate) Resolve(claims *utils.SessionClaims) Decision {
	d := Denied
	if claims != nil && models.Role(claims.Role).Valid() {
		d = Allowed
	}

	g.mu.Lock()
	g.decision = d
	g.mu.Unlock()
	return d
}

// Decision returns the last resolved decision, or Pending before the first
// Resolve.
func (g *Gate) Decision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision
}

// Reset returns the gate to Pending, e.g. on navigation to a new admin
// route before the next check resolves.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.decision = Pending
	g.mu.Unlock()
}
