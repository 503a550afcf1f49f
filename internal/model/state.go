package model

// AppState is the unit of persistence: the store adapter reads and writes this
// whole structure. CurrentUser is part of the wire shape for compatibility
// with the stored document but is always null at rest; sessions never leak
// into the shared document.
type AppState struct {
	CurrentUser        *Identity               `json:"currentUser"`
	SiteContent        ContentDocument         `json:"siteContent"`
	Clients            map[string]ClientRecord `json:"clients"`
	ContactSubmissions []ContactSubmission     `json:"contactSubmissions"`
}

// DefaultState is the compiled-in fallback used when neither the remote store
// nor the local slot has a document.
func DefaultState() *AppState {
	return &AppState{
		SiteContent:        DefaultContent(),
		Clients:            DefaultClients(),
		ContactSubmissions: []ContactSubmission{},
	}
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the container's internal state to mutation.
func (s *AppState) Clone() *AppState {
	out := &AppState{
		SiteContent:        s.SiteContent,
		Clients:            make(map[string]ClientRecord, len(s.Clients)),
		ContactSubmissions: make([]ContactSubmission, len(s.ContactSubmissions)),
	}
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	out.SiteContent.Sectors = append([]string(nil), s.SiteContent.Sectors...)
	out.SiteContent.PortfolioItems = append([]PortfolioItem(nil), s.SiteContent.PortfolioItems...)
	out.SiteContent.TeamMembers = append([]TeamMember(nil), s.SiteContent.TeamMembers...)
	for id, rec := range s.Clients {
		rec.Documents = append([]DocumentRef(nil), rec.Documents...)
		out.Clients[id] = rec
	}
	copy(out.ContactSubmissions, s.ContactSubmissions)
	return out
}
