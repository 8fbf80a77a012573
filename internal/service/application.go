package service

import (
	"context"
	"log/slog"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// ApplicationService owns per-opportunity applications and their
// approval state machine. Authorization is split: the applicant may
// withdraw, the opportunity owner decides everything else.
type ApplicationService struct {
	apps          repository.ApplicationRepository
	opportunities repository.OpportunityRepository
	logger        *slog.Logger
}

func NewApplicationService(apps repository.ApplicationRepository, opportunities repository.OpportunityRepository, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, opportunities: opportunities, logger: logger}
}

// Create submits an application against a verified opportunity. Owners
// cannot apply to their own listings.
func (s *ApplicationService) Create(ctx context.Context, applicantID, opportunityID, text string, mediaIDs []string) (*model.Application, error) {
	o, err := s.opportunities.GetOpportunityByID(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if o.OwnerID == applicantID {
		return nil, apperror.Forbidden("you cannot apply to your own opportunity")
	}

	a := &model.Application{
		OwnerID:       o.OwnerID,
		ApplicantID:   applicantID,
		OpportunityID: opportunityID,
		Status:        model.ApplicationPending,
		Text:          text,
		MediaIDs:      mediaIDs,
	}
	if err := s.apps.CreateApplication(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("application created",
		slog.String("applicationID", a.ID),
		slog.String("applicantID", applicantID),
		slog.String("opportunityID", opportunityID),
	)
	return a, nil
}

func (s *ApplicationService) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return s.apps.GetApplicationByID(ctx, id)
}

// ChangeStatus applies one transition. Withdrawing is the applicant's
// prerogative; approving, rejecting, and moving to audition belong to
// the opportunity owner.
func (s *ApplicationService) ChangeStatus(ctx context.Context, actorID, id, newStatus string) (*model.Application, error) {
	a, err := s.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch newStatus {
	case model.ApplicationWithdrawn:
		if actorID != a.ApplicantID {
			return nil, apperror.Forbidden("only the applicant may withdraw an application")
		}
	case model.ApplicationApproved, model.ApplicationAudition, model.ApplicationRejected:
		if actorID != a.OwnerID {
			return nil, apperror.Forbidden("only the opportunity owner may decide an application")
		}
	default:
		return nil, apperror.ValidationFailed("status", "unknown application status "+newStatus)
	}

	if err := s.apps.UpdateApplicationStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	a.Status = newStatus

	s.logger.Info("application status changed",
		slog.String("applicationID", id),
		slog.String("status", newStatus),
	)
	return a, nil
}

// ForOpportunity lists an opportunity's applications for its owner.
// Withdrawn applications are hidden from this view; they remain visible
// to their applicants through ForApplicant.
func (s *ApplicationService) ForOpportunity(ctx context.Context, userID, opportunityID string) ([]model.Application, error) {
	o, err := s.opportunities.GetOpportunityByID(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != userID {
		return nil, apperror.Forbidden("only the opportunity owner may list its applications")
	}

	apps, err := s.apps.ListApplicationsByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}

	visible := apps[:0]
	for _, a := range apps {
		if a.Status != model.ApplicationWithdrawn {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// ForApplicant lists a user's own applications, all statuses.
func (s *ApplicationService) ForApplicant(ctx context.Context, applicantID string) ([]model.Application, error) {
	return s.apps.ListApplicationsByApplicant(ctx, applicantID)
}

// WithdrawAll bulk-transitions a user's applications on account
// deletion.
func (s *ApplicationService) WithdrawAll(ctx context.Context, applicantID string) error {
	return s.apps.WithdrawApplicationsByApplicant(ctx, applicantID)
}

// DeleteByOpportunity removes the applications of a deleted listing.
func (s *ApplicationService) DeleteByOpportunity(ctx context.Context, opportunityID string) error {
	return s.apps.DeleteApplicationsByOpportunity(ctx, opportunityID)
}
