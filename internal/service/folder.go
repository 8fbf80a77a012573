package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

const DefaultPracticeCapacity = 10

// FolderService owns practice folders (one per user, capacity-limited)
// and repertoire folders (many per user, owner-checked). The practice
// capacity is instance-wide state guarded by a mutex; it applies to
// future adds only, existing over-full folders are left alone.
type FolderService struct {
	repo   repository.FolderRepository
	logger *slog.Logger

	mu       sync.RWMutex
	capacity int
}

func NewFolderService(repo repository.FolderRepository, capacity int, logger *slog.Logger) *FolderService {
	if capacity <= 0 {
		capacity = DefaultPracticeCapacity
	}
	return &FolderService{repo: repo, capacity: capacity, logger: logger}
}

func (s *FolderService) Capacity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capacity
}

func (s *FolderService) SetCapacity(capacity int) error {
	if capacity <= 0 {
		return apperror.ValidationFailed("capacity", "capacity must be positive")
	}
	s.mu.Lock()
	s.capacity = capacity
	s.mu.Unlock()

	s.logger.Info("practice capacity changed", slog.Int("capacity", capacity))
	return nil
}

// CreatePractice creates the user's single practice folder.
func (s *FolderService) CreatePractice(ctx context.Context, ownerID string) (*model.PracticeFolder, error) {
	f := &model.PracticeFolder{OwnerID: ownerID}
	if err := s.repo.CreatePracticeFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FolderService) GetPractice(ctx context.Context, ownerID string) (*model.PracticeFolder, error) {
	return s.repo.GetPracticeFolderByOwner(ctx, ownerID)
}

// AddPractice appends a content reference, rejecting adds that would
// push the folder over the capacity setting.
func (s *FolderService) AddPractice(ctx context.Context, ownerID, contentID string) (*model.PracticeFolder, error) {
	if contentID == "" {
		return nil, apperror.ValidationFailed("contentId", "content ID is required")
	}

	f, err := s.repo.GetPracticeFolderByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if f.NumContents+1 > s.Capacity() {
		return nil, apperror.Forbidden("practice folder is full")
	}

	f.ContentIDs = append(f.ContentIDs, contentID)
	f.NumContents = len(f.ContentIDs)
	if err := s.repo.UpdatePracticeFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// RemovePractice splices a content reference out of the folder.
func (s *FolderService) RemovePractice(ctx context.Context, ownerID, contentID string) (*model.PracticeFolder, error) {
	f, err := s.repo.GetPracticeFolderByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	i := slices.Index(f.ContentIDs, contentID)
	if i < 0 {
		return nil, apperror.NotFound("practice content", contentID)
	}

	f.ContentIDs = slices.Delete(f.ContentIDs, i, i+1)
	f.NumContents = len(f.ContentIDs)
	if err := s.repo.UpdatePracticeFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FolderService) DeletePractice(ctx context.Context, ownerID string) error {
	return s.repo.DeletePracticeFolderByOwner(ctx, ownerID)
}

// CreateRepertoire creates a named folder; users may own any number.
func (s *FolderService) CreateRepertoire(ctx context.Context, ownerID, name string) (*model.RepertoireFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "folder name is required")
	}

	f := &model.RepertoireFolder{OwnerID: ownerID, Name: name}
	if err := s.repo.CreateRepertoireFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FolderService) ListRepertoire(ctx context.Context, ownerID string) ([]model.RepertoireFolder, error) {
	return s.repo.ListRepertoireFoldersByOwner(ctx, ownerID)
}

func (s *FolderService) getOwnedRepertoire(ctx context.Context, ownerID, folderID string) (*model.RepertoireFolder, error) {
	f, err := s.repo.GetRepertoireFolderByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if f.OwnerID != ownerID {
		return nil, apperror.Forbidden("you do not own this folder")
	}
	return f, nil
}

func (s *FolderService) AddRepertoire(ctx context.Context, ownerID, folderID, contentID string) (*model.RepertoireFolder, error) {
	if contentID == "" {
		return nil, apperror.ValidationFailed("contentId", "content ID is required")
	}

	f, err := s.getOwnedRepertoire(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	f.ContentIDs = append(f.ContentIDs, contentID)
	if err := s.repo.UpdateRepertoireFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FolderService) RemoveRepertoire(ctx context.Context, ownerID, folderID, contentID string) (*model.RepertoireFolder, error) {
	f, err := s.getOwnedRepertoire(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	i := slices.Index(f.ContentIDs, contentID)
	if i < 0 {
		return nil, apperror.NotFound("folder content", contentID)
	}

	f.ContentIDs = slices.Delete(f.ContentIDs, i, i+1)
	if err := s.repo.UpdateRepertoireFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FolderService) DeleteRepertoire(ctx context.Context, ownerID, folderID string) error {
	if _, err := s.getOwnedRepertoire(ctx, ownerID, folderID); err != nil {
		return err
	}
	return s.repo.DeleteRepertoireFolder(ctx, folderID)
}

// DeleteAllForOwner removes both folder kinds on account deletion.
func (s *FolderService) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	if err := s.repo.DeletePracticeFolderByOwner(ctx, ownerID); err != nil {
		return err
	}
	return s.repo.DeleteRepertoireFoldersByOwner(ctx, ownerID)
}
