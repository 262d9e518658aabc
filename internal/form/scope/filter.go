// Package scope narrows a merged form to the questions one actor may see.
package scope

import (
	"certform/internal/form/models"
)

// Visible reports whether a question scope admits the given role. Admins see
// everything.
func Visible(scope models.QuestionScope, role models.ActorRole) bool {
	if role == models.RoleAdmin {
		return true
	}
	switch scope {
	case models.ScopeBoth:
		return true
	case models.ScopeApplicant:
		return role == models.RoleApplicant
	case models.ScopeCertifier:
		return role == models.RoleCertifier
	}
	return false
}

// ForActor removes questions the role may not see. Pages are never removed,
// even when every question on them is filtered out; page numbering must stay
// stable so stored answers keep resolving. Input is not mutated.
func ForActor(pages []models.MergedFormPage, role models.ActorRole) []models.MergedFormPage {
	if role == models.RoleAdmin {
		return pages
	}
	filtered := make([]models.MergedFormPage, len(pages))
	for i, page := range pages {
		out := page
		out.Questions = nil
		for _, q := range page.Questions {
			if Visible(q.Scope, role) {
				out.Questions = append(out.Questions, q)
			}
		}
		filtered[i] = out
	}
	return filtered
}
