package service

import (
	"context"

	"github.com/dstanisic/pulsefeed/internal/apperr"
	"github.com/dstanisic/pulsefeed/internal/domain"
	"github.com/dstanisic/pulsefeed/internal/dto"
	"github.com/dstanisic/pulsefeed/internal/storage"
)

// ProfileService owns personalization profiles. Authorization is an
// explicit check here: every operation is keyed by the caller's own
// identity, so a caller can never touch another user's profile.
type ProfileService struct {
	profiles storage.ProfileStore
}

func NewProfileService(profiles storage.ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) Get(ctx context.Context, callerID string) (*domain.Profile, error) {
	if callerID == "" {
		return nil, apperr.NewValidation("caller identity is required")
	}
	return s.profiles.Get(ctx, callerID)
}

func (s *ProfileService) Upsert(ctx context.Context, callerID string, cmd dto.UpsertProfileCommand) (*domain.Profile, error) {
	if callerID == "" {
		return nil, apperr.NewValidation("caller identity is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p := &domain.Profile{
		UserID:                 callerID,
		Mood:                   cmd.Mood,
		Blocklist:              cmd.Blocklist,
		PersonalizationEnabled: cmd.PersonalizationEnabled,
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Delete(ctx context.Context, callerID string) error {
	if callerID == "" {
		return apperr.NewValidation("caller identity is required")
	}
	return s.profiles.Delete(ctx, callerID)
}
