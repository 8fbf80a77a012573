package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// PortfolioService owns the one-per-user media showcase.
type PortfolioService struct {
	repo   repository.PortfolioRepository
	media  repository.MediaRepository
	logger *slog.Logger
}

func NewPortfolioService(repo repository.PortfolioRepository, media repository.MediaRepository, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{repo: repo, media: media, logger: logger}
}

func (s *PortfolioService) Create(ctx context.Context, ownerID string) (*model.Portfolio, error) {
	p := &model.Portfolio{OwnerID: ownerID}
	if err := s.repo.CreatePortfolio(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PortfolioService) Get(ctx context.Context, ownerID string) (*model.Portfolio, error) {
	return s.repo.GetPortfolioByOwner(ctx, ownerID)
}

// PortfolioUpdate enumerates the mutable presentation fields.
type PortfolioUpdate struct {
	Style      *model.PortfolioStyle
	Intro      *string
	Info       *model.ProfessionalInfo
	HeadshotID *string
}

func (s *PortfolioService) Update(ctx context.Context, ownerID string, upd PortfolioUpdate) (*model.Portfolio, error) {
	p, err := s.repo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Style != nil {
		p.Style = *upd.Style
	}
	if upd.Intro != nil {
		p.Intro = *upd.Intro
	}
	if upd.Info != nil {
		p.Info = *upd.Info
	}
	if upd.HeadshotID != nil {
		if *upd.HeadshotID != "" {
			if _, err := s.media.GetMediaByID(ctx, *upd.HeadshotID); err != nil {
				return nil, err
			}
		}
		p.HeadshotID = *upd.HeadshotID
	}

	if err := s.repo.UpdatePortfolio(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddMedia appends a verified media reference to the showcase.
func (s *PortfolioService) AddMedia(ctx context.Context, ownerID, mediaID string) (*model.Portfolio, error) {
	if _, err := s.media.GetMediaByID(ctx, mediaID); err != nil {
		return nil, err
	}

	p, err := s.repo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if slices.Contains(p.MediaIDs, mediaID) {
		return nil, apperror.Conflict("portfolio", "media is already in the portfolio")
	}

	p.MediaIDs = append(p.MediaIDs, mediaID)
	if err := s.repo.UpdatePortfolio(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PortfolioService) RemoveMedia(ctx context.Context, ownerID, mediaID string) (*model.Portfolio, error) {
	p, err := s.repo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	i := slices.Index(p.MediaIDs, mediaID)
	if i < 0 {
		return nil, apperror.NotFound("portfolio media", mediaID)
	}

	p.MediaIDs = slices.Delete(p.MediaIDs, i, i+1)
	if err := s.repo.UpdatePortfolio(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PortfolioService) Delete(ctx context.Context, ownerID string) error {
	return s.repo.DeletePortfolioByOwner(ctx, ownerID)
}
