package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// TagService owns tags. At most one tag per (tagged, post) pair, no
// matter who the tagger is; only the original tagger may remove one.
type TagService struct {
	tags   repository.TagRepository
	users  repository.UserRepository
	posts  repository.PostRepository
	logger *slog.Logger
}

func NewTagService(tags repository.TagRepository, users repository.UserRepository, posts repository.PostRepository, logger *slog.Logger) *TagService {
	return &TagService{tags: tags, users: users, posts: posts, logger: logger}
}

func (s *TagService) Create(ctx context.Context, taggerID, taggedID, postID string) (*model.Tag, error) {
	if _, err := s.users.GetUserByID(ctx, taggedID); err != nil {
		return nil, err
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	t := &model.Tag{TaggerID: taggerID, TaggedID: taggedID, PostID: postID}
	if err := s.tags.CreateTag(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("tag created",
		slog.String("taggerID", taggerID),
		slog.String("taggedID", taggedID),
		slog.String("postID", postID),
	)
	return t, nil
}

// Delete removes the tag identified by its (tagged, post) pair. A
// missing tag is a bad-values error; a caller who is not the tagger is
// forbidden.
func (s *TagService) Delete(ctx context.Context, userID, taggedID, postID string) (*model.Tag, error) {
	t, err := s.tags.GetTagByTarget(ctx, taggedID, postID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("tag", "no such tag exists")
		}
		return nil, err
	}
	if t.TaggerID != userID {
		return nil, apperror.Forbidden("only the tagger may delete a tag")
	}

	if err := s.tags.DeleteTag(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TagService) ListByPost(ctx context.Context, postID string) ([]model.Tag, error) {
	return s.tags.ListTagsByPost(ctx, postID)
}

func (s *TagService) ListByTagged(ctx context.Context, taggedID string) ([]model.Tag, error) {
	return s.tags.ListTagsByTagged(ctx, taggedID)
}

// DeleteByPost cascades tag removal when a post is deleted.
func (s *TagService) DeleteByPost(ctx context.Context, postID string) error {
	return s.tags.DeleteTagsByPost(ctx, postID)
}

// DeleteByUser removes every tag touching the user, as tagger or
// tagged, on account deletion.
func (s *TagService) DeleteByUser(ctx context.Context, userID string) error {
	return s.tags.DeleteTagsByUser(ctx, userID)
}
