package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/itmspace/user-gateway/internal/apperr"
	"github.com/itmspace/user-gateway/internal/keycloak"
)

// Service orchestrates validation, translation and identity provider calls
// for the user use cases. It holds no state of its own.
type Service struct {
	kc keycloak.Client
}

func NewService(kc keycloak.Client) *Service {
	return &Service{kc: kc}
}

// Create validates the request, maps it to the provider shape and registers
// the user. On any validation violation the provider is never contacted.
// Returns the provider-assigned id; the full profile is not re-fetched, the
// provider stays authoritative.
func (s *Service) Create(ctx context.Context, req CreateRequest) (string, error) {
	if violations := ValidateCreate(req); len(violations) > 0 {
		return "", apperr.Validation(violations)
	}
	id, err := s.kc.CreateUser(ctx, ToRepresentation(req))
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetByID fetches one user by its opaque provider id. A syntactically
// malformed id is rejected before any provider call; an unknown id surfaces
// as not-found, which is an expected outcome, not an internal fault.
func (s *Service) GetByID(ctx context.Context, id string) (*Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validation([]apperr.FieldViolation{{Field: "id", Message: "must be a valid user id"}})
	}
	rec, err := s.kc.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromRecord(rec)
}

// Search returns the provider's users matching the exact username. An empty
// slice means no match and is not an error.
func (s *Service) Search(ctx context.Context, username string) ([]keycloak.UserRepresentation, error) {
	return s.kc.SearchByUsername(ctx, username)
}

// Delete removes a user by id. Malformed ids are rejected locally.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation([]apperr.FieldViolation{{Field: "id", Message: "must be a valid user id"}})
	}
	return s.kc.DeleteUser(ctx, id)
}
