package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// QueueProgress reports the state after one progression step: the
// applicant now being seen and the next in line, if any.
type QueueProgress struct {
	Position int    `json:"position"`
	Current  string `json:"current"`
	Next     string `json:"next,omitempty"`
}

// QueueService owns audition queues. A queue consumes an order produced
// upstream by applause ranking; it never ranks by itself. The position
// advances one step at a time and never exceeds the queue length.
type QueueService struct {
	repo   repository.QueueRepository
	logger *slog.Logger
}

func NewQueueService(repo repository.QueueRepository, logger *slog.Logger) *QueueService {
	return &QueueService{repo: repo, logger: logger}
}

// Create registers the queue for an opportunity. At most one queue per
// opportunity.
func (s *QueueService) Create(ctx context.Context, managerID, opportunityID string, applicants []string, startTime time.Time, minutesPer int) (*model.Queue, error) {
	if len(applicants) == 0 {
		return nil, apperror.ValidationFailed("applicants", "queue needs at least one applicant")
	}
	if minutesPer <= 0 {
		return nil, apperror.ValidationFailed("minutesPer", "minutes per person must be positive")
	}

	q := &model.Queue{
		ManagerID:       managerID,
		OpportunityID:   opportunityID,
		Applicants:      applicants,
		StartTime:       startTime,
		MinutesPer:      minutesPer,
		CurrentPosition: 0,
		TotalQueued:     len(applicants),
	}
	if err := s.repo.CreateQueue(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info("queue created",
		slog.String("opportunityID", opportunityID),
		slog.Int("size", len(applicants)),
	)
	return q, nil
}

func (s *QueueService) GetByOpportunity(ctx context.Context, opportunityID string) (*model.Queue, error) {
	return s.repo.GetQueueByOpportunity(ctx, opportunityID)
}

// EstimatedTime returns when the user's slot begins: the start time
// plus their 1-based index times the per-person duration.
func (s *QueueService) EstimatedTime(ctx context.Context, opportunityID, userID string) (time.Time, error) {
	q, err := s.repo.GetQueueByOpportunity(ctx, opportunityID)
	if err != nil {
		return time.Time{}, err
	}

	index := -1
	for i, id := range q.Applicants {
		if id == userID {
			index = i + 1
			break
		}
	}
	if index < 0 {
		return time.Time{}, apperror.Forbidden("you are not in this queue")
	}

	return q.StartTime.Add(time.Duration(index*q.MinutesPer) * time.Minute), nil
}

// Progress advances the queue one step. Only the manager may progress;
// once the position would pass the end the queue is exhausted.
func (s *QueueService) Progress(ctx context.Context, managerID, opportunityID string) (*QueueProgress, error) {
	q, err := s.repo.GetQueueByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if q.ManagerID != managerID {
		return nil, apperror.Forbidden("only the queue manager may progress the queue")
	}

	position := q.CurrentPosition + 1
	if position > q.TotalQueued {
		return nil, apperror.Forbidden("queue is exhausted")
	}

	if err := s.repo.UpdateQueuePosition(ctx, q.ID, position); err != nil {
		return nil, err
	}

	progress := &QueueProgress{
		Position: position,
		Current:  q.Applicants[position-1],
	}
	if position < q.TotalQueued {
		progress.Next = q.Applicants[position]
	}

	s.logger.Info("queue progressed",
		slog.String("opportunityID", opportunityID),
		slog.Int("position", position),
	)
	return progress, nil
}

// Delete removes the opportunity's queue after a manager check.
func (s *QueueService) Delete(ctx context.Context, managerID, opportunityID string) error {
	q, err := s.repo.GetQueueByOpportunity(ctx, opportunityID)
	if err != nil {
		return err
	}
	if q.ManagerID != managerID {
		return apperror.Forbidden("only the queue manager may delete the queue")
	}
	return s.repo.DeleteQueueByOpportunity(ctx, opportunityID)
}

// DeleteAllForManager removes every queue a manager owns, used on
// account deletion.
func (s *QueueService) DeleteAllForManager(ctx context.Context, managerID string) error {
	return s.repo.DeleteQueuesByManager(ctx, managerID)
}
