package types

import (
	"fmt"

	"github.com/google/uuid"
)

// OwnerKind discriminates who a cart line or wishlist entry belongs to.
type OwnerKind string

const (
	OwnerKindAccount OwnerKind = "account"
	OwnerKindSession OwnerKind = "session"
)

// Owner identifies the party a storefront row is scoped to: either a
// registered account or an anonymous guest session, never both.
// Repositories pattern-match on Kind to pick the owning column.
type Owner struct {
	Kind OwnerKind
	ID   uuid.UUID
}

// AccountOwner builds an account-scoped owner.
func AccountOwner(id uuid.UUID) Owner {
	return Owner{Kind: OwnerKindAccount, ID: id}
}

// SessionOwner builds a guest-session-scoped owner.
func SessionOwner(id uuid.UUID) Owner {
	return Owner{Kind: OwnerKindSession, ID: id}
}

// Valid reports whether the owner carries a usable identity.
func (o Owner) Valid() bool {
	if o.ID == uuid.Nil {
		return false
	}
	return o.Kind == OwnerKindAccount || o.Kind == OwnerKindSession
}

// IsAccount reports whether the owner is a registered account.
func (o Owner) IsAccount() bool {
	return o.Kind == OwnerKindAccount
}

func (o Owner) String() string {
	return fmt.Sprintf("%s:%s", o.Kind, o.ID)
}
