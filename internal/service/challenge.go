package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// ChallengeService owns the proposed pool and the posted list. Posting
// draws uniformly from the pool and is irreversible.
type ChallengeService struct {
	repo   repository.ChallengeRepository
	logger *slog.Logger
}

func NewChallengeService(repo repository.ChallengeRepository, logger *slog.Logger) *ChallengeService {
	return &ChallengeService{repo: repo, logger: logger}
}

func (s *ChallengeService) Propose(ctx context.Context, challengerID, prompt string) (*model.Challenge, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperror.ValidationFailed("prompt", "challenge prompt is required")
	}

	c := &model.Challenge{ChallengerID: challengerID, Prompt: prompt}
	if err := s.repo.CreateChallenge(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ChallengeService) ListProposed(ctx context.Context) ([]model.Challenge, error) {
	return s.repo.ListChallenges(ctx, false)
}

func (s *ChallengeService) ListPosted(ctx context.Context) ([]model.Challenge, error) {
	return s.repo.ListChallenges(ctx, true)
}

// PostRandom draws one challenge at random from the proposed pool and
// moves it to the posted list.
func (s *ChallengeService) PostRandom(ctx context.Context) (*model.Challenge, error) {
	proposed, err := s.repo.ListChallenges(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(proposed) == 0 {
		return nil, apperror.NotFound("challenge", "proposed pool is empty")
	}

	pick := proposed[rand.IntN(len(proposed))]
	if err := s.repo.MarkChallengePosted(ctx, pick.ID); err != nil {
		return nil, err
	}
	pick.Posted = true

	s.logger.Info("challenge posted", slog.String("challengeID", pick.ID))
	return &pick, nil
}

// Accept records participation in a posted challenge and returns it so
// the orchestrator can reward the challenger.
func (s *ChallengeService) Accept(ctx context.Context, id string) (*model.Challenge, error) {
	c, err := s.repo.GetChallengeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Posted {
		return nil, apperror.Forbidden("challenge has not been posted yet")
	}

	c.NumAccepted++
	if err := s.repo.UpdateChallengeAccepted(ctx, id, c.NumAccepted); err != nil {
		return nil, err
	}
	return c, nil
}

// Reject decrements the participation counter, never below zero.
func (s *ChallengeService) Reject(ctx context.Context, id string) (*model.Challenge, error) {
	c, err := s.repo.GetChallengeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Posted {
		return nil, apperror.Forbidden("challenge has not been posted yet")
	}

	if c.NumAccepted > 0 {
		c.NumAccepted--
		if err := s.repo.UpdateChallengeAccepted(ctx, id, c.NumAccepted); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DeleteByChallenger removes a user's challenges on account deletion.
func (s *ChallengeService) DeleteByChallenger(ctx context.Context, challengerID string) error {
	return s.repo.DeleteChallengesByChallenger(ctx, challengerID)
}
