package service

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

var (
	youtubeWatchRe = regexp.MustCompile(`^(?:www\.)?youtube\.com$`)
	youtubeShortRe = regexp.MustCompile(`^youtu\.be$`)
	vimeoRe        = regexp.MustCompile(`^(?:www\.)?vimeo\.com$`)
)

// MediaService stores validated content links. Known video hosts are
// normalized to their embeddable form; other http(s) URLs pass through.
type MediaService struct {
	repo   repository.MediaRepository
	logger *slog.Logger
}

func NewMediaService(repo repository.MediaRepository, logger *slog.Logger) *MediaService {
	return &MediaService{repo: repo, logger: logger}
}

// NormalizeURL validates a link and rewrites known hosts into their
// embed form. Unrecognized schemes and malformed URLs are rejected.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperror.ValidationFailed("url", "media URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperror.ValidationFailed("url", "media URL must be a valid http(s) link")
	}

	switch {
	case youtubeWatchRe.MatchString(u.Host):
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id, nil
		}
		// Already an embed or shorts path.
		return u.String(), nil
	case youtubeShortRe.MatchString(u.Host):
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return "", apperror.ValidationFailed("url", "youtu.be link is missing a video id")
		}
		return "https://www.youtube.com/embed/" + id, nil
	case vimeoRe.MatchString(u.Host):
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return "", apperror.ValidationFailed("url", "vimeo link is missing a video id")
		}
		return "https://player.vimeo.com/video/" + id, nil
	}

	return u.String(), nil
}

func (s *MediaService) Create(ctx context.Context, ownerID, rawURL string) (*model.Media, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	m := &model.Media{OwnerID: ownerID, URL: normalized}
	if err := s.repo.CreateMedia(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("media created", slog.String("mediaID", m.ID), slog.String("ownerID", ownerID))
	return m, nil
}

func (s *MediaService) GetByID(ctx context.Context, id string) (*model.Media, error) {
	return s.repo.GetMediaByID(ctx, id)
}

// Delete removes a media record after an owner check.
func (s *MediaService) Delete(ctx context.Context, userID, id string) error {
	m, err := s.repo.GetMediaByID(ctx, id)
	if err != nil {
		return err
	}
	if m.OwnerID != userID {
		return apperror.Forbidden("only the owner may delete media")
	}
	return s.repo.DeleteMedia(ctx, id)
}

// Release deletes a media record with no owner check, for cascades
// that already verified ownership at a higher level.
func (s *MediaService) Release(ctx context.Context, id string) error {
	return s.repo.DeleteMedia(ctx, id)
}

// DeleteByOwner removes all of a user's media on account deletion.
func (s *MediaService) DeleteByOwner(ctx context.Context, ownerID string) error {
	return s.repo.DeleteMediaByOwner(ctx, ownerID)
}
