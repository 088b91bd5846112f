// Package auth holds the caller identity, the role -> capability gate and the signed token scheme.
// The engine never sees credentials, only an Identity produced here.
package auth

import (
	"github.com/cristianortiz/auctionportal/internal/shared/apperr"
	"github.com/google/uuid"
)

// Role is the stored account role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Capability is a privileged action; plain bidding and viewing need none.
type Capability string

const (
	CapCreateAuction Capability = "create_auction"
	CapEditAuction   Capability = "edit_auction"
	CapViewLogs      Capability = "view_logs"
)

var (
	ErrUnauthenticated = apperr.New(apperr.KindUnauthorized, "authentication required")
	ErrForbidden       = apperr.New(apperr.KindForbidden, "missing capability")
)

// Identity is an already-authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// Gate maps roles to capability sets. It is the single place where roles are interpreted.
type Gate struct {
	grants map[Role]map[Capability]struct{}
}

// NewGate returns the default policy: admins hold every capability, users none.
func NewGate() *Gate {
	g := &Gate{grants: make(map[Role]map[Capability]struct{})}
	g.Grant(RoleAdmin, CapCreateAuction, CapEditAuction, CapViewLogs)
	g.Grant(RoleUser)
	return g
}

// Grant adds capabilities to a role.
func (g *Gate) Grant(role Role, caps ...Capability) {
	set, ok := g.grants[role]
	if !ok {
		set = make(map[Capability]struct{})
		g.grants[role] = set
	}
	for _, c := range caps {
		set[c] = struct{}{}
	}
}

// Authorize returns nil when id holds capability c.
func (g *Gate) Authorize(id Identity, c Capability) error {
	if id.UserID == uuid.Nil {
		return ErrUnauthenticated
	}
	if _, ok := g.grants[id.Role][c]; !ok {
		return ErrForbidden
	}
	return nil
}

// Can is Authorize as a bool.
func (g *Gate) Can(id Identity, c Capability) bool {
	return g.Authorize(id, c) == nil
}
