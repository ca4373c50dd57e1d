package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultGroupIcon  = "Folder"
	DefaultGroupColor = "#6366F1"
	DefaultGroupName  = "General"
)

// Group is a named, ordered container of credentials.
type Group struct {
	ID           string        `json:"id"`
	Name         string        `json:"name" validate:"notblank,max=64"`
	ColorVariant string        `json:"colorVariant"`
	Icon         string        `json:"icon"`
	CreatedDate  time.Time     `json:"createdDate"`
	LastModified time.Time     `json:"lastModified"`
	Accounts     []*Credential `json:"accounts"`
}

// NewGroup returns an empty group with default icon and color.
func NewGroup(name string, now time.Time) *Group {
	return &Group{
		ID:           uuid.NewString(),
		Name:         name,
		ColorVariant: DefaultGroupColor,
		Icon:         DefaultGroupIcon,
		CreatedDate:  now,
		LastModified: now,
		Accounts:     []*Credential{},
	}
}

// Contains reports whether c is in the group's list.
func (g *Group) Contains(c *Credential) bool {
	for _, a := range g.Accounts {
		if a == c {
			return true
		}
	}
	return false
}

// Add appends c unless it is already present.
func (g *Group) Add(c *Credential, now time.Time) {
	if g.Contains(c) {
		return
	}
	g.Accounts = append(g.Accounts, c)
	g.LastModified = now
}

// Remove drops c from the group. It returns false if c was not a member.
func (g *Group) Remove(c *Credential, now time.Time) bool {
	for i, a := range g.Accounts {
		if a == c {
			g.Accounts = append(g.Accounts[:i], g.Accounts[i+1:]...)
			g.LastModified = now
			return true
		}
	}
	return false
}

// Clone returns a deep copy including all credentials.
func (g *Group) Clone() *Group {
	cp := *g
	cp.Accounts = make([]*Credential, len(g.Accounts))
	for i, a := range g.Accounts {
		cp.Accounts[i] = a.Clone()
	}
	return &cp
}
