package models

import "strings"

// Stats summarizes the snapshot contents.
type Stats struct {
	Groups    int
	Total     int
	Active    int
	Favorites int
	Archived  int
	Trashed   int
}

func (s *Snapshot) filter(keep func(*Credential) bool) []*Credential {
	out := []*Credential{}
	for _, g := range s.Groups {
		for _, c := range g.Accounts {
			if keep(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// All returns every credential regardless of state.
func (s *Snapshot) All() []*Credential {
	return s.filter(func(*Credential) bool { return true })
}

// Active returns credentials that are neither archived nor trashed.
func (s *Snapshot) Active() []*Credential {
	return s.filter(func(c *Credential) bool { return c.State() == StateActive })
}

// Favorites returns favorite credentials that are active.
func (s *Snapshot) Favorites() []*Credential {
	return s.filter(func(c *Credential) bool { return c.IsFavorite && c.State() == StateActive })
}

func (s *Snapshot) Archived() []*Credential {
	return s.filter(func(c *Credential) bool { return c.State() == StateArchived })
}

func (s *Snapshot) Trashed() []*Credential {
	return s.filter(func(c *Credential) bool { return c.State() == StateTrashed })
}

// Search matches term against name, username, email and website of active
// credentials, ignoring case. An empty term matches everything active.
func (s *Snapshot) Search(term string) []*Credential {
	term = strings.ToLower(strings.TrimSpace(term))
	return s.filter(func(c *Credential) bool {
		if c.State() != StateActive {
			return false
		}
		if term == "" {
			return true
		}
		for _, f := range []string{c.Name, c.Username, c.Email, c.Website} {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
		return false
	})
}

// Stats counts groups and credentials per state.
func (s *Snapshot) Stats() Stats {
	st := Stats{Groups: len(s.Groups)}
	for _, g := range s.Groups {
		for _, c := range g.Accounts {
			st.Total++
			switch c.State() {
			case StateActive:
				st.Active++
				if c.IsFavorite {
					st.Favorites++
				}
			case StateArchived:
				st.Archived++
			case StateTrashed:
				st.Trashed++
			}
		}
	}
	return st
}
