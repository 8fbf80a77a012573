// Package repository declares the storage interfaces implemented by the
// sqlite package. Services depend on these interfaces, never on the
// concrete DB, so tests can swap in mocks and the backend can change
// without touching business logic.
package repository

import (
	"context"
	"time"

	"github.com/sakif/stagecall/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

type ApplauseRepository interface {
	CreateApplause(ctx context.Context, a *model.Applause) error
	GetApplauseByUser(ctx context.Context, userID string) (*model.Applause, error)
	UpdateApplauseValue(ctx context.Context, userID string, value float64) error
	DeleteApplauseByUser(ctx context.Context, userID string) error
}

type RestrictionRepository interface {
	CreateRestriction(ctx context.Context, r *model.Restriction) error
	GetRestrictionByUser(ctx context.Context, userID string) (*model.Restriction, error)
	UpdateRestriction(ctx context.Context, r *model.Restriction) error
	DeleteRestrictionByUser(ctx context.Context, userID string) error
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *model.Category) error
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type PostRepository interface {
	CreatePost(ctx context.Context, p *model.FocusedPost) error
	GetPostByID(ctx context.Context, id string) (*model.FocusedPost, error)
	ListPosts(ctx context.Context, opts ListOptions) ([]model.FocusedPost, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]model.FocusedPost, error)
	ListPostsByCategory(ctx context.Context, categoryID string) ([]model.FocusedPost, error)
	UpdatePost(ctx context.Context, p *model.FocusedPost) error
	DeletePost(ctx context.Context, id string) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, c *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	ListCommentsByParent(ctx context.Context, parentID string) ([]model.Comment, error)
	UpdateComment(ctx context.Context, c *model.Comment) error
	DeleteComment(ctx context.Context, id string) error
	DeleteCommentsByAuthor(ctx context.Context, authorID string) error
	DeleteCommentsByParent(ctx context.Context, parentID string) error
}

type TagRepository interface {
	CreateTag(ctx context.Context, t *model.Tag) error
	// GetTagByTarget looks up the unique tag for a (tagged, post) pair.
	GetTagByTarget(ctx context.Context, taggedID, postID string) (*model.Tag, error)
	ListTagsByPost(ctx context.Context, postID string) ([]model.Tag, error)
	ListTagsByTagged(ctx context.Context, taggedID string) ([]model.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	DeleteTagsByPost(ctx context.Context, postID string) error
	// DeleteTagsByUser removes every tag where the user is tagger or tagged.
	DeleteTagsByUser(ctx context.Context, userID string) error
}

type VoteRepository interface {
	CreateVote(ctx context.Context, v *model.Vote) error
	GetVote(ctx context.Context, userID, parentID string) (*model.Vote, error)
	UpdateVote(ctx context.Context, v *model.Vote) error
	DeleteVote(ctx context.Context, id string) error
	DeleteVotesByUser(ctx context.Context, userID string) error
	DeleteVotesByParent(ctx context.Context, parentID string) error
}

type ConnectionRepository interface {
	CreateRequest(ctx context.Context, r *model.ConnectionRequest) error
	// GetPendingRequest finds the pending request for the ordered (from, to) pair.
	GetPendingRequest(ctx context.Context, fromID, toID string) (*model.ConnectionRequest, error)
	// HasPendingBetween reports whether a pending request exists in either direction.
	HasPendingBetween(ctx context.Context, user1ID, user2ID string) (bool, error)
	ListRequestsForUser(ctx context.Context, userID string) ([]model.ConnectionRequest, error)
	UpdateRequestStatus(ctx context.Context, id, status string) error
	DeleteRequest(ctx context.Context, id string) error
	// AcceptRequest resolves a pending request and creates the symmetric
	// connection in a single transaction. The request must be pending.
	AcceptRequest(ctx context.Context, requestID string, conn *model.Connection) error
	GetConnection(ctx context.Context, user1ID, user2ID string) (*model.Connection, error)
	ListConnectionsForUser(ctx context.Context, userID string) ([]model.Connection, error)
	DeleteConnection(ctx context.Context, id string) error
	// DeleteAllForUser removes every request and connection touching the user.
	DeleteAllForUser(ctx context.Context, userID string) error
}

type ChallengeRepository interface {
	CreateChallenge(ctx context.Context, c *model.Challenge) error
	GetChallengeByID(ctx context.Context, id string) (*model.Challenge, error)
	ListChallenges(ctx context.Context, posted bool) ([]model.Challenge, error)
	MarkChallengePosted(ctx context.Context, id string) error
	UpdateChallengeAccepted(ctx context.Context, id string, numAccepted int) error
	DeleteChallengesByChallenger(ctx context.Context, challengerID string) error
}

type OpportunityRepository interface {
	CreateOpportunity(ctx context.Context, o *model.Opportunity) error
	GetOpportunityByID(ctx context.Context, id string) (*model.Opportunity, error)
	ListOpportunities(ctx context.Context, activeOnly bool) ([]model.Opportunity, error)
	ListOpportunitiesByOwner(ctx context.Context, ownerID string) ([]model.Opportunity, error)
	// ListExpiredActive returns active opportunities whose expiry has passed.
	ListExpiredActive(ctx context.Context, now time.Time) ([]model.Opportunity, error)
	UpdateOpportunity(ctx context.Context, o *model.Opportunity) error
	DeleteOpportunity(ctx context.Context, id string) error
}

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, a *model.Application) error
	GetApplicationByID(ctx context.Context, id string) (*model.Application, error)
	ListApplicationsByOpportunity(ctx context.Context, opportunityID string) ([]model.Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id, status string) error
	// WithdrawApplicationsByApplicant bulk-transitions a user's applications.
	WithdrawApplicationsByApplicant(ctx context.Context, applicantID string) error
	DeleteApplicationsByOpportunity(ctx context.Context, opportunityID string) error
}

type QueueRepository interface {
	CreateQueue(ctx context.Context, q *model.Queue) error
	GetQueueByOpportunity(ctx context.Context, opportunityID string) (*model.Queue, error)
	UpdateQueuePosition(ctx context.Context, id string, position int) error
	DeleteQueueByOpportunity(ctx context.Context, opportunityID string) error
	DeleteQueuesByManager(ctx context.Context, managerID string) error
}

type PortfolioRepository interface {
	CreatePortfolio(ctx context.Context, p *model.Portfolio) error
	GetPortfolioByOwner(ctx context.Context, ownerID string) (*model.Portfolio, error)
	UpdatePortfolio(ctx context.Context, p *model.Portfolio) error
	DeletePortfolioByOwner(ctx context.Context, ownerID string) error
}

type FolderRepository interface {
	CreatePracticeFolder(ctx context.Context, f *model.PracticeFolder) error
	GetPracticeFolderByOwner(ctx context.Context, ownerID string) (*model.PracticeFolder, error)
	UpdatePracticeFolder(ctx context.Context, f *model.PracticeFolder) error
	DeletePracticeFolderByOwner(ctx context.Context, ownerID string) error

	CreateRepertoireFolder(ctx context.Context, f *model.RepertoireFolder) error
	GetRepertoireFolderByID(ctx context.Context, id string) (*model.RepertoireFolder, error)
	ListRepertoireFoldersByOwner(ctx context.Context, ownerID string) ([]model.RepertoireFolder, error)
	UpdateRepertoireFolder(ctx context.Context, f *model.RepertoireFolder) error
	DeleteRepertoireFolder(ctx context.Context, id string) error
	DeleteRepertoireFoldersByOwner(ctx context.Context, ownerID string) error
}

type MediaRepository interface {
	CreateMedia(ctx context.Context, m *model.Media) error
	GetMediaByID(ctx context.Context, id string) (*model.Media, error)
	DeleteMedia(ctx context.Context, id string) error
	DeleteMediaByOwner(ctx context.Context, ownerID string) error
}
