package sync

import (
	"strings"

	"github.com/hrsync/tcsync/internal/model"
)

// matchIndex resolves a DesiredUser to at most one live user, per spec.md
// §4.C6 "Matching": email, then additional_email, then external_id, first
// hit wins.
type matchIndex struct {
	byEmail           map[string]*model.User
	byAdditionalEmail map[string]*model.User
	byExternalID      map[string]*model.User
}

func newMatchIndex(users []model.User) *matchIndex {
	idx := &matchIndex{
		byEmail:           make(map[string]*model.User, len(users)),
		byAdditionalEmail: make(map[string]*model.User, len(users)),
		byExternalID:      make(map[string]*model.User, len(users)),
	}
	for i := range users {
		u := &users[i]
		if u.Email != "" {
			key := strings.ToLower(u.Email)
			if _, exists := idx.byEmail[key]; !exists {
				idx.byEmail[key] = u
			}
		}
		if u.AdditionalEmail != "" {
			key := strings.ToLower(u.AdditionalEmail)
			if _, exists := idx.byAdditionalEmail[key]; !exists {
				idx.byAdditionalEmail[key] = u
			}
		}
		if u.ExternalID != "" {
			if _, exists := idx.byExternalID[u.ExternalID]; !exists {
				idx.byExternalID[u.ExternalID] = u
			}
		}
	}
	return idx
}

func (idx *matchIndex) find(du model.DesiredUser) *model.User {
	email := strings.ToLower(du.TimeCampEmail)
	if u, ok := idx.byEmail[email]; ok {
		return u
	}
	if u, ok := idx.byAdditionalEmail[email]; ok {
		return u
	}
	if du.TimeCampExternalID != "" {
		if u, ok := idx.byExternalID[du.TimeCampExternalID]; ok {
			return u
		}
	}
	return nil
}
