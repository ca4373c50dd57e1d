// Package models defines the persisted vault document: credentials, the
// groups that own them, application settings and theme.
package models

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a credential. Favorite is tracked
// separately and may overlay any state.
type State string

const (
	StateActive   State = "active"
	StateArchived State = "archived"
	StateTrashed  State = "trashed"
)

// Credential is a single stored login. It is owned by exactly one Group.
type Credential struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name" validate:"notblank,max=256"`
	Username     string    `json:"username"`
	Email        string    `json:"email" validate:"omitempty,email"`
	Password     string    `json:"password"`
	Website      string    `json:"website" validate:"omitempty,weburl"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`

	IsFavorite      bool       `json:"isFavorite"`
	IsArchived      bool       `json:"isArchived"`
	ArchivedDate    *time.Time `json:"archivedDate"`
	IsTrashed       bool       `json:"isTrashed"`
	TrashedDate     *time.Time `json:"trashedDate"`
	PreviousGroupID *string    `json:"previousGroupId"`
}

// NewCredential returns a credential with a fresh id and timestamps.
func NewCredential(name string, now time.Time) *Credential {
	return &Credential{
		ID:           uuid.NewString(),
		Name:         name,
		CreatedAt:    now,
		LastModified: now,
	}
}

// State reports the lifecycle state. Trashed wins if both flags are set,
// which Normalize repairs on load.
func (c *Credential) State() State {
	switch {
	case c.IsTrashed:
		return StateTrashed
	case c.IsArchived:
		return StateArchived
	default:
		return StateActive
	}
}

// MarkArchived moves the credential into the Archived state.
func (c *Credential) MarkArchived(ownerID string, now time.Time) {
	c.IsTrashed = false
	c.TrashedDate = nil
	c.IsArchived = true
	c.ArchivedDate = &now
	c.PreviousGroupID = &ownerID
	c.LastModified = now
}

// MarkTrashed moves the credential into the Trashed state.
func (c *Credential) MarkTrashed(ownerID string, now time.Time) {
	c.IsArchived = false
	c.ArchivedDate = nil
	c.IsTrashed = true
	c.TrashedDate = &now
	c.PreviousGroupID = &ownerID
	c.LastModified = now
}

// MarkActive clears both lifecycle flags, their dates and the restore hint.
func (c *Credential) MarkActive(now time.Time) {
	c.IsArchived = false
	c.ArchivedDate = nil
	c.IsTrashed = false
	c.TrashedDate = nil
	c.PreviousGroupID = nil
	c.LastModified = now
}

// Clone returns a deep copy.
func (c *Credential) Clone() *Credential {
	cp := *c
	cp.ArchivedDate = cloneTime(c.ArchivedDate)
	cp.TrashedDate = cloneTime(c.TrashedDate)
	if c.PreviousGroupID != nil {
		id := *c.PreviousGroupID
		cp.PreviousGroupID = &id
	}
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
