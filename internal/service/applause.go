// Package service contains the business logic, one service per concept.
// Services accept plain ids and scalars, return apperror kinds, and
// never touch HTTP. Cross-concept sequencing happens in the handler
// layer; the side effects a later failure cannot roll back are a
// documented property of that layer, not of these services.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// Applause deltas applied by the orchestration layer as side effects of
// other concepts' operations. Values are fractional so votes can move
// scores by half a point.
const (
	ApplausePostCreated          = 3.0
	ApplausePostDeleted          = -3.0
	ApplauseCommentCreated       = 1.0
	ApplauseCommentDeleted       = -1.0
	ApplauseTagged               = 2.0
	ApplauseUntagged             = -2.0
	ApplauseConnectionAccepted   = 1.0
	ApplauseConnectionRemoved    = -1.0
	ApplauseVote                 = 0.5
	ApplauseApplicationWithdrawn = -2.0
	ApplauseChallengeAccepted    = 1.0
)

// RankedUser pairs a user id with its applause value for leaderboards
// and queue ordering.
type RankedUser struct {
	UserID string  `json:"userId"`
	Value  float64 `json:"value"`
}

// ApplauseService owns the per-user reputation counters.
type ApplauseService struct {
	repo   repository.ApplauseRepository
	logger *slog.Logger
}

func NewApplauseService(repo repository.ApplauseRepository, logger *slog.Logger) *ApplauseService {
	return &ApplauseService{repo: repo, logger: logger}
}

// Initialize creates a zero-value counter for the user. Fails with a
// conflict if one already exists.
func (s *ApplauseService) Initialize(ctx context.Context, userID string) (*model.Applause, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	a := &model.Applause{UserID: userID, Value: 0}
	if err := s.repo.CreateApplause(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("applause initialized", slog.String("userID", userID))
	return a, nil
}

// Value returns the user's current score.
func (s *ApplauseService) Value(ctx context.Context, userID string) (float64, error) {
	a, err := s.repo.GetApplauseByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return a.Value, nil
}

// Update adds delta (possibly negative or fractional) to the user's
// score and returns the new value.
func (s *ApplauseService) Update(ctx context.Context, userID string, delta float64) (float64, error) {
	a, err := s.repo.GetApplauseByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	value := a.Value + delta
	if err := s.repo.UpdateApplauseValue(ctx, userID, value); err != nil {
		return 0, err
	}

	s.logger.Info("applause updated",
		slog.String("userID", userID),
		slog.Float64("delta", delta),
		slog.Float64("value", value),
	)
	return value, nil
}

// Rank fetches the score of every listed user and returns them sorted
// descending by value. Fails if any counter is missing. Ties keep the
// input order; callers should not rely on tie ordering.
func (s *ApplauseService) Rank(ctx context.Context, userIDs []string) ([]RankedUser, error) {
	ranked := make([]RankedUser, 0, len(userIDs))
	for _, id := range userIDs {
		a, err := s.repo.GetApplauseByUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("ranking user %s: %w", id, err)
		}
		ranked = append(ranked, RankedUser{UserID: id, Value: a.Value})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	return ranked, nil
}

// Delete removes the user's counter. Missing counters are ignored so
// deletion cascades stay idempotent.
func (s *ApplauseService) Delete(ctx context.Context, userID string) error {
	return s.repo.DeleteApplauseByUser(ctx, userID)
}
