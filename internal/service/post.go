package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

const MaxPostContentLength = 10000

// PostService owns focused posts and their categories. A post's
// category must exist at creation and update time; only the author may
// mutate or delete a post.
type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewPostService(posts repository.PostRepository, categories repository.CategoryRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, categories: categories, logger: logger}
}

func (s *PostService) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name is required")
	}

	c := &model.Category{Name: name, Description: strings.TrimSpace(description)}
	if err := s.categories.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostService) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return s.categories.GetCategoryByID(ctx, id)
}

func (s *PostService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.ListCategories(ctx)
}

// PostsInCategory lists the posts a category deletion would cascade to.
func (s *PostService) PostsInCategory(ctx context.Context, categoryID string) ([]model.FocusedPost, error) {
	if _, err := s.categories.GetCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.posts.ListPostsByCategory(ctx, categoryID)
}

func (s *PostService) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.DeleteCategory(ctx, id)
}

func (s *PostService) Create(ctx context.Context, authorID, content, categoryID string, mediaIDs []string) (*model.FocusedPost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "post content is required")
	}
	if len(content) > MaxPostContentLength {
		return nil, apperror.ValidationFailed("content", "post content is too long")
	}
	if _, err := s.categories.GetCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}

	p := &model.FocusedPost{
		AuthorID:   authorID,
		Content:    content,
		MediaIDs:   mediaIDs,
		CategoryID: categoryID,
	}
	if err := s.posts.CreatePost(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("post created", slog.String("postID", p.ID), slog.String("authorID", authorID))
	return p, nil
}

func (s *PostService) GetByID(ctx context.Context, id string) (*model.FocusedPost, error) {
	return s.posts.GetPostByID(ctx, id)
}

func (s *PostService) List(ctx context.Context, limit, offset int) ([]model.FocusedPost, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.posts.ListPosts(ctx, repository.ListOptions{Limit: limit, Offset: offset})
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]model.FocusedPost, error) {
	return s.posts.ListPostsByAuthor(ctx, authorID)
}

// Update changes content and/or category. Only the author may update;
// empty fields are left unchanged, and a supplied category must exist.
func (s *PostService) Update(ctx context.Context, userID, postID, content, categoryID string) (*model.FocusedPost, error) {
	p, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != userID {
		return nil, apperror.Forbidden("only the author may update a post")
	}

	if content = strings.TrimSpace(content); content != "" {
		if len(content) > MaxPostContentLength {
			return nil, apperror.ValidationFailed("content", "post content is too long")
		}
		p.Content = content
	}
	if categoryID != "" {
		if _, err := s.categories.GetCategoryByID(ctx, categoryID); err != nil {
			return nil, err
		}
		p.CategoryID = categoryID
	}

	if err := s.posts.UpdatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a post after an author check. The handler layer
// cascades tags, votes, and media afterwards.
func (s *PostService) Delete(ctx context.Context, userID, postID string) (*model.FocusedPost, error) {
	p, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != userID {
		return nil, apperror.Forbidden("only the author may delete a post")
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return nil, err
	}

	s.logger.Info("post deleted", slog.String("postID", postID))
	return p, nil
}

// DeleteAsSystem removes a post with no author check, for category and
// user deletion cascades.
func (s *PostService) DeleteAsSystem(ctx context.Context, postID string) error {
	return s.posts.DeletePost(ctx, postID)
}
