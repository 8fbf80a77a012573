package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// VoteOutcome describes what a vote call actually did. Delta is the
// applause adjustment the orchestrator must apply to the post author;
// on a polarity flip it is doubled so one adjustment both cancels the
// old vote and applies the new one.
type VoteOutcome struct {
	Action string  `json:"action"` // "created", "retracted", or "flipped"
	Upvote bool    `json:"upvote"`
	Delta  float64 `json:"delta"`
}

const (
	VoteCreated   = "created"
	VoteRetracted = "retracted"
	VoteFlipped   = "flipped"
)

// VoteService owns votes and their idempotent toggle semantics.
type VoteService struct {
	votes  repository.VoteRepository
	posts  repository.PostRepository
	logger *slog.Logger
}

func NewVoteService(votes repository.VoteRepository, posts repository.PostRepository, logger *slog.Logger) *VoteService {
	return &VoteService{votes: votes, posts: posts, logger: logger}
}

// Vote applies the tri-state toggle for (user, parent):
//
//	no existing vote        -> create, delta = ±0.5
//	same polarity exists    -> retract, delta = inverse of the original
//	opposite polarity exists -> flip, delta = ±1.0
func (s *VoteService) Vote(ctx context.Context, userID, parentID string, upvote bool) (*VoteOutcome, error) {
	if _, err := s.posts.GetPostByID(ctx, parentID); err != nil {
		return nil, err
	}

	delta := ApplauseVote
	if !upvote {
		delta = -ApplauseVote
	}

	existing, err := s.votes.GetVote(ctx, userID, parentID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}

		v := &model.Vote{UserID: userID, ParentID: parentID, Upvote: upvote}
		if err := s.votes.CreateVote(ctx, v); err != nil {
			return nil, err
		}
		return &VoteOutcome{Action: VoteCreated, Upvote: upvote, Delta: delta}, nil
	}

	if existing.Upvote == upvote {
		// Same polarity retracts the vote and undoes its delta.
		if err := s.votes.DeleteVote(ctx, existing.ID); err != nil {
			return nil, err
		}
		return &VoteOutcome{Action: VoteRetracted, Upvote: upvote, Delta: -delta}, nil
	}

	// Opposite polarity flips the stored vote. The delta is doubled to
	// cancel the old polarity and apply the new one in a single step.
	existing.Upvote = upvote
	if err := s.votes.UpdateVote(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Info("vote flipped",
		slog.String("userID", userID),
		slog.String("parentID", parentID),
		slog.Bool("upvote", upvote),
	)
	return &VoteOutcome{Action: VoteFlipped, Upvote: upvote, Delta: 2 * delta}, nil
}

// DeleteByUser removes a user's votes on account deletion.
func (s *VoteService) DeleteByUser(ctx context.Context, userID string) error {
	return s.votes.DeleteVotesByUser(ctx, userID)
}

// DeleteByParent removes the votes on a deleted post.
func (s *VoteService) DeleteByParent(ctx context.Context, parentID string) error {
	return s.votes.DeleteVotesByParent(ctx, parentID)
}
