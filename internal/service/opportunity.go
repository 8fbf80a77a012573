package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// Opportunities expire two weeks after creation or reactivation.
const opportunityTTL = 14 * 24 * time.Hour

// OpportunityService owns casting listings and their lifecycle:
// active -> deactivated (by owner choice or by expiry) -> reactivated.
type OpportunityService struct {
	repo   repository.OpportunityRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewOpportunityService(repo repository.OpportunityRepository, logger *slog.Logger) *OpportunityService {
	return &OpportunityService{repo: repo, logger: logger, now: time.Now}
}

// SetClock overrides the time source for tests.
func (s *OpportunityService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *OpportunityService) Create(ctx context.Context, ownerID, title, description, requirements string, startOn, endsOn time.Time) (*model.Opportunity, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "opportunity title is required")
	}
	if !startOn.Before(endsOn) {
		return nil, apperror.ValidationFailed("dates", "start date must be before end date")
	}

	o := &model.Opportunity{
		OwnerID:      ownerID,
		Title:        title,
		Description:  strings.TrimSpace(description),
		StartOn:      startOn,
		EndsOn:       endsOn,
		ExpiresOn:    s.now().Add(opportunityTTL),
		Requirements: strings.TrimSpace(requirements),
		IsActive:     true,
	}
	if err := s.repo.CreateOpportunity(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("opportunity created", slog.String("opportunityID", o.ID), slog.String("ownerID", ownerID))
	return o, nil
}

func (s *OpportunityService) GetByID(ctx context.Context, id string) (*model.Opportunity, error) {
	return s.repo.GetOpportunityByID(ctx, id)
}

func (s *OpportunityService) List(ctx context.Context, activeOnly bool) ([]model.Opportunity, error) {
	return s.repo.ListOpportunities(ctx, activeOnly)
}

func (s *OpportunityService) ListByOwner(ctx context.Context, ownerID string) ([]model.Opportunity, error) {
	return s.repo.ListOpportunitiesByOwner(ctx, ownerID)
}

// OpportunityUpdate enumerates the mutable listing fields. Nil leaves a
// field unchanged; date ordering is re-validated against the stored
// value for whichever date is not supplied.
type OpportunityUpdate struct {
	Title        *string
	Description  *string
	Requirements *string
	StartOn      *time.Time
	EndsOn       *time.Time
}

func (s *OpportunityService) Update(ctx context.Context, userID, id string, upd OpportunityUpdate) (*model.Opportunity, error) {
	o, err := s.repo.GetOpportunityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != userID {
		return nil, apperror.Forbidden("only the owner may update an opportunity")
	}

	startOn := o.StartOn
	endsOn := o.EndsOn
	if upd.StartOn != nil {
		startOn = *upd.StartOn
	}
	if upd.EndsOn != nil {
		endsOn = *upd.EndsOn
	}
	if !startOn.Before(endsOn) {
		return nil, apperror.ValidationFailed("dates", "start date must be before end date")
	}
	o.StartOn = startOn
	o.EndsOn = endsOn

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "opportunity title is required")
		}
		o.Title = title
	}
	if upd.Description != nil {
		o.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Requirements != nil {
		o.Requirements = strings.TrimSpace(*upd.Requirements)
	}

	if err := s.repo.UpdateOpportunity(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Deactivate is owner-initiated and unconditional.
func (s *OpportunityService) Deactivate(ctx context.Context, userID, id string) (*model.Opportunity, error) {
	o, err := s.repo.GetOpportunityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != userID {
		return nil, apperror.Forbidden("only the owner may deactivate an opportunity")
	}

	o.IsActive = false
	if err := s.repo.UpdateOpportunity(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// DeactivateExpired is the system-invoked mode: it transitions only a
// listing that is still active and past its expiry.
func (s *OpportunityService) DeactivateExpired(ctx context.Context, id string) (*model.Opportunity, error) {
	o, err := s.repo.GetOpportunityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.IsActive || s.now().Before(o.ExpiresOn) {
		return o, nil
	}

	o.IsActive = false
	if err := s.repo.UpdateOpportunity(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("opportunity expired", slog.String("opportunityID", id))
	return o, nil
}

// ExpireSweep system-deactivates every active listing past its expiry.
// The server runs this on a schedule.
func (s *OpportunityService) ExpireSweep(ctx context.Context) (int, error) {
	expired, err := s.repo.ListExpiredActive(ctx, s.now())
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, o := range expired {
		if _, err := s.DeactivateExpired(ctx, o.ID); err != nil {
			s.logger.Error("expiry sweep failed for opportunity",
				slog.String("opportunityID", o.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		swept++
	}
	return swept, nil
}

// Reactivate turns a listing back on and restarts its expiry clock.
func (s *OpportunityService) Reactivate(ctx context.Context, userID, id string) (*model.Opportunity, error) {
	o, err := s.repo.GetOpportunityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != userID {
		return nil, apperror.Forbidden("only the owner may reactivate an opportunity")
	}

	o.IsActive = true
	o.ExpiresOn = s.now().Add(opportunityTTL)
	if err := s.repo.UpdateOpportunity(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// DatesInRange reports whether [start, end] fully contains the
// listing's [StartOn, EndsOn] window.
func (s *OpportunityService) DatesInRange(ctx context.Context, id string, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, apperror.ValidationFailed("dates", "start date must be before end date")
	}

	o, err := s.repo.GetOpportunityByID(ctx, id)
	if err != nil {
		return false, err
	}

	return !o.StartOn.Before(start) && !o.EndsOn.After(end), nil
}

func (s *OpportunityService) Delete(ctx context.Context, userID, id string) error {
	o, err := s.repo.GetOpportunityByID(ctx, id)
	if err != nil {
		return err
	}
	if o.OwnerID != userID {
		return apperror.Forbidden("only the owner may delete an opportunity")
	}
	return s.repo.DeleteOpportunity(ctx, id)
}

// DeactivateAllForOwner turns off every listing an owner has, used when
// the owner's account is deleted.
func (s *OpportunityService) DeactivateAllForOwner(ctx context.Context, ownerID string) error {
	ops, err := s.repo.ListOpportunitiesByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, o := range ops {
		if !o.IsActive {
			continue
		}
		o.IsActive = false
		if err := s.repo.UpdateOpportunity(ctx, &o); err != nil {
			return err
		}
	}
	return nil
}
