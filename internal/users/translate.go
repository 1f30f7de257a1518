package users

import (
	"github.com/itmspace/user-gateway/internal/apperr"
	"github.com/itmspace/user-gateway/internal/keycloak"
)

// ToRepresentation maps a validated create request onto the provider's user
// document. Accounts are created enabled, with a permanent password.
func ToRepresentation(req CreateRequest) keycloak.UserRepresentation {
	return keycloak.UserRepresentation{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Enabled:   true,
		Credentials: []keycloak.Credential{
			{Type: "password", Value: req.Password, Temporary: false},
		},
	}
}

// FromRecord flattens a provider record into a Profile. Role and group names
// keep the provider's order; downstream comparisons are set-based. A record
// without an id cannot be addressed again and is treated as contract drift.
func FromRecord(rec *keycloak.UserRecord) (*Profile, error) {
	if rec == nil || rec.User.ID == "" {
		return nil, apperr.New(apperr.KindMapping, "identity provider returned a user without an id")
	}
	p := &Profile{
		ID:        rec.User.ID,
		FirstName: rec.User.FirstName,
		LastName:  rec.User.LastName,
		Email:     rec.User.Email,
		Roles:     make([]string, 0, len(rec.Roles)),
		Groups:    make([]string, 0, len(rec.Groups)),
	}
	for _, r := range rec.Roles {
		p.Roles = append(p.Roles, r.Name)
	}
	for _, g := range rec.Groups {
		p.Groups = append(p.Groups, g.Name)
	}
	return p, nil
}
