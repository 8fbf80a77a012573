package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// CommentService owns comments. The parent post is verified at
// creation; only the author may update or delete a comment.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, logger: logger}
}

func (s *CommentService) Create(ctx context.Context, authorID, parentID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "comment content is required")
	}

	// The parent must be an existing post, or an existing comment for
	// nested replies.
	if _, err := s.posts.GetPostByID(ctx, parentID); err != nil {
		if _, cerr := s.comments.GetCommentByID(ctx, parentID); cerr != nil {
			return nil, apperror.NotFound("post or comment", parentID)
		}
	}

	c := &model.Comment{AuthorID: authorID, ParentID: parentID, Content: content}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("comment created", slog.String("commentID", c.ID), slog.String("parentID", parentID))
	return c, nil
}

func (s *CommentService) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	return s.comments.GetCommentByID(ctx, id)
}

func (s *CommentService) ListByParent(ctx context.Context, parentID string) ([]model.Comment, error) {
	return s.comments.ListCommentsByParent(ctx, parentID)
}

func (s *CommentService) Update(ctx context.Context, userID, commentID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "comment content is required")
	}

	c, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		return nil, apperror.Forbidden("only the author may update a comment")
	}

	c.Content = content
	if err := s.comments.UpdateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, userID, commentID string) (*model.Comment, error) {
	c, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		return nil, apperror.Forbidden("only the author may delete a comment")
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteByAuthor bulk-removes a user's comments on account deletion.
func (s *CommentService) DeleteByAuthor(ctx context.Context, authorID string) error {
	return s.comments.DeleteCommentsByAuthor(ctx, authorID)
}

// DeleteByParent removes the comments under a deleted post.
func (s *CommentService) DeleteByParent(ctx context.Context, parentID string) error {
	return s.comments.DeleteCommentsByParent(ctx, parentID)
}
