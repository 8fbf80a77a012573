package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/stagecall/internal/apperror"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository"
)

// ConnectionService owns the request state machine and the derived
// symmetric connection relation. Per ordered pair the states are
// none -> pending -> accepted or rejected; a connection row exists only
// after acceptance, and a rejected request does not block a new one.
type ConnectionService struct {
	repo   repository.ConnectionRepository
	users  repository.UserRepository
	logger *slog.Logger
}

func NewConnectionService(repo repository.ConnectionRepository, users repository.UserRepository, logger *slog.Logger) *ConnectionService {
	return &ConnectionService{repo: repo, users: users, logger: logger}
}

// SendRequest creates a pending request from -> to. It is rejected when
// the pair is already connected or a pending request exists in either
// direction.
func (s *ConnectionService) SendRequest(ctx context.Context, fromID, toID string) (*model.ConnectionRequest, error) {
	if fromID == toID {
		return nil, apperror.ValidationFailed("to", "cannot send a connection request to yourself")
	}
	if _, err := s.users.GetUserByID(ctx, toID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetConnection(ctx, fromID, toID); err == nil {
		return nil, apperror.Forbidden("users are already connected")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	pending, err := s.repo.HasPendingBetween(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperror.Forbidden("a pending request already exists between these users")
	}

	r := &model.ConnectionRequest{FromID: fromID, ToID: toID, Status: model.RequestPending}
	if err := s.repo.CreateRequest(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("connection request sent", slog.String("from", fromID), slog.String("to", toID))
	return r, nil
}

// AcceptRequest resolves the pending request from -> to and creates the
// symmetric connection. The request resolution and the connection
// insert happen in one storage transaction.
func (s *ConnectionService) AcceptRequest(ctx context.Context, fromID, toID string) (*model.Connection, error) {
	req, err := s.repo.GetPendingRequest(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}

	conn := &model.Connection{User1ID: fromID, User2ID: toID}
	if err := s.repo.AcceptRequest(ctx, req.ID, conn); err != nil {
		return nil, err
	}

	s.logger.Info("connection request accepted", slog.String("from", fromID), slog.String("to", toID))
	return conn, nil
}

// RejectRequest resolves the pending request without connecting.
func (s *ConnectionService) RejectRequest(ctx context.Context, fromID, toID string) error {
	req, err := s.repo.GetPendingRequest(ctx, fromID, toID)
	if err != nil {
		return err
	}
	return s.repo.UpdateRequestStatus(ctx, req.ID, model.RequestRejected)
}

// RemoveRequest withdraws the pending request between the caller and
// the other party. Either party may withdraw, whichever direction the
// request was sent in.
func (s *ConnectionService) RemoveRequest(ctx context.Context, callerID, otherID string) error {
	req, err := s.repo.GetPendingRequest(ctx, callerID, otherID)
	if errors.Is(err, apperror.ErrNotFound) {
		req, err = s.repo.GetPendingRequest(ctx, otherID, callerID)
	}
	if err != nil {
		return err
	}
	return s.repo.DeleteRequest(ctx, req.ID)
}

// Requests lists every request touching the user, any status.
func (s *ConnectionService) Requests(ctx context.Context, userID string) ([]model.ConnectionRequest, error) {
	return s.repo.ListRequestsForUser(ctx, userID)
}

// Connections returns the other-party id for every connection row
// touching the user.
func (s *ConnectionService) Connections(ctx context.Context, userID string) ([]string, error) {
	conns, err := s.repo.ListConnectionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	others := make([]string, 0, len(conns))
	for _, c := range conns {
		if c.User1ID == userID {
			others = append(others, c.User2ID)
		} else {
			others = append(others, c.User1ID)
		}
	}
	return others, nil
}

// RemoveConnection deletes the unordered pair's connection row.
func (s *ConnectionService) RemoveConnection(ctx context.Context, user1ID, user2ID string) error {
	conn, err := s.repo.GetConnection(ctx, user1ID, user2ID)
	if err != nil {
		return err
	}
	return s.repo.DeleteConnection(ctx, conn.ID)
}

// DeleteAllForUser removes every request and connection touching the
// user on account deletion.
func (s *ConnectionService) DeleteAllForUser(ctx context.Context, userID string) error {
	return s.repo.DeleteAllForUser(ctx, userID)
}
