package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// RestrictionService stores per-user role flags and exposes the gate
// check the handler layer composes before sensitive operations.
type RestrictionService struct {
	repo   repository.RestrictionRepository
	logger *slog.Logger
}

func NewRestrictionService(repo repository.RestrictionRepository, logger *slog.Logger) *RestrictionService {
	return &RestrictionService{repo: repo, logger: logger}
}

// flagsFromRoles derives the three booleans from a free-text role list.
// Unrecognized names are ignored.
func flagsFromRoles(roles []string) (actor, castingDirector, admin bool) {
	for _, role := range roles {
		switch strings.ToLower(strings.TrimSpace(role)) {
		case model.RoleActor:
			actor = true
		case model.RoleCastingDirector:
			castingDirector = true
		case model.RoleAdmin:
			admin = true
		}
	}
	return actor, castingDirector, admin
}

func (s *RestrictionService) Create(ctx context.Context, userID string, roles []string) (*model.Restriction, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	actor, cd, admin := flagsFromRoles(roles)
	r := &model.Restriction{UserID: userID, Actor: actor, CastingDirector: cd, Admin: admin}
	if err := s.repo.CreateRestriction(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RestrictionService) Get(ctx context.Context, userID string) (*model.Restriction, error) {
	return s.repo.GetRestrictionByUser(ctx, userID)
}

// Edit re-derives the flags from a fresh role list.
func (s *RestrictionService) Edit(ctx context.Context, userID string, roles []string) (*model.Restriction, error) {
	r, err := s.repo.GetRestrictionByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.Actor, r.CastingDirector, r.Admin = flagsFromRoles(roles)
	if err := s.repo.UpdateRestriction(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("restriction edited",
		slog.String("userID", userID),
		slog.Bool("actor", r.Actor),
		slog.Bool("castingDirector", r.CastingDirector),
		slog.Bool("admin", r.Admin),
	)
	return r, nil
}

// Check is the authorization gate. It keeps the three failure modes
// distinct: no caller at all, no restriction record, and a flag that is
// present but false.
func (s *RestrictionService) Check(ctx context.Context, userID, role string) error {
	if userID == "" {
		return apperror.Unauthenticated("you must be logged in")
	}

	r, err := s.repo.GetRestrictionByUser(ctx, userID)
	if err != nil {
		return err
	}

	var allowed bool
	switch role {
	case model.RoleActor:
		allowed = r.Actor
	case model.RoleCastingDirector:
		allowed = r.CastingDirector
	case model.RoleAdmin:
		allowed = r.Admin
	default:
		return apperror.ValidationFailed("role", "unknown role "+role)
	}

	if !allowed {
		return apperror.Forbidden("you must be a " + role + " to do this")
	}
	return nil
}

func (s *RestrictionService) Delete(ctx context.Context, userID string) error {
	return s.repo.DeleteRestrictionByUser(ctx, userID)
}
