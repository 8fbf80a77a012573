package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/auth"
	"github.com/sakif/stagecall/internal/model"
	"github.com/sakif/stagecall/internal/repository/sqlite"
	"github.com/sakif/stagecall/internal/service"
)

// postFixture wires real services over an in-memory database so handler
// tests exercise the full orchestration path, applause included.
type postFixture struct {
	db       *sqlite.DB
	applause *service.ApplauseService
	media    *service.MediaService
	posts    *PostHandler
	tags     *TagHandler
	votes    *VoteHandler
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	postSvc := service.NewPostService(db, db, logger)
	commentSvc := service.NewCommentService(db, db, logger)
	tagSvc := service.NewTagService(db, db, db, logger)
	voteSvc := service.NewVoteService(db, db, logger)
	applauseSvc := service.NewApplauseService(db, logger)
	restrictionSvc := service.NewRestrictionService(db, logger)
	mediaSvc := service.NewMediaService(db, logger)

	return &postFixture{
		db:       db,
		applause: applauseSvc,
		media:    mediaSvc,
		posts:    NewPostHandler(postSvc, commentSvc, tagSvc, voteSvc, applauseSvc, restrictionSvc, mediaSvc, logger),
		tags:     NewTagHandler(tagSvc, applauseSvc, logger),
		votes:    NewVoteHandler(voteSvc, postSvc, applauseSvc, logger),
	}
}

func (f *postFixture) seedMember(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()

	u := &model.User{Email: email, PasswordHash: "hash", Name: "Member"}
	require.NoError(t, f.db.CreateUser(ctx, u))
	_, err := f.applause.Initialize(ctx, u.ID)
	require.NoError(t, err)
	return u.ID
}

func (f *postFixture) seedCategory(t *testing.T) string {
	t.Helper()
	c := &model.Category{Name: "monologues"}
	require.NoError(t, f.db.CreateCategory(context.Background(), c))
	return c.ID
}

func (f *postFixture) applauseValue(t *testing.T, userID string) float64 {
	t.Helper()
	value, err := f.applause.Value(context.Background(), userID)
	require.NoError(t, err)
	return value
}

// authedRequest builds a request carrying the caller's identity, the
// way the session middleware would after verifying a token.
func authedRequest(method, target, body, userID string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	return r.WithContext(auth.ContextWithUserID(r.Context(), userID))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestPostLifecycle_ApplauseAccounting(t *testing.T) {
	f := newPostFixture(t)
	author := f.seedMember(t, "author@example.com")
	tagged := f.seedMember(t, "tagged@example.com")
	voter := f.seedMember(t, "voter@example.com")
	categoryID := f.seedCategory(t)

	// Author publishes a post.
	rec := httptest.NewRecorder()
	f.posts.HandleCreate(rec, authedRequest(http.MethodPost, "/api/posts",
		`{"content":"my audition piece","categoryId":"`+categoryID+`"}`, author))
	require.Equal(t, http.StatusCreated, rec.Code)
	post := decodeBody[model.FocusedPost](t, rec)
	assert.Equal(t, service.ApplausePostCreated, f.applauseValue(t, author))

	// Author tags a collaborator; the tagged user gets the reward.
	rec = httptest.NewRecorder()
	f.tags.HandleCreate(rec, authedRequest(http.MethodPost, "/api/tags",
		`{"taggedId":"`+tagged+`","postId":"`+post.ID+`"}`, author))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, service.ApplauseTagged, f.applauseValue(t, tagged))

	// A third user upvotes; the delta lands on the author.
	rec = httptest.NewRecorder()
	f.votes.HandleVote(rec, authedRequest(http.MethodPost, "/api/votes",
		`{"parentId":"`+post.ID+`","upvote":true}`, voter))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ApplausePostCreated+service.ApplauseVote, f.applauseValue(t, author))

	// Author deletes the post. The creation reward reverses and the
	// tagged user gives back the tag reward; earned votes stay.
	req := authedRequest(http.MethodDelete, "/api/posts/"+post.ID, "", author)
	req.SetPathValue("id", post.ID)
	rec = httptest.NewRecorder()
	f.posts.HandleDelete(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, service.ApplauseVote, f.applauseValue(t, author))
	assert.Equal(t, 0.0, f.applauseValue(t, tagged))
}

func TestPostDelete_ReleasesMedia(t *testing.T) {
	f := newPostFixture(t)
	author := f.seedMember(t, "author@example.com")
	categoryID := f.seedCategory(t)
	ctx := context.Background()

	m, err := f.media.Create(ctx, author, "https://vimeo.com/42")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.posts.HandleCreate(rec, authedRequest(http.MethodPost, "/api/posts",
		`{"content":"with a reel","categoryId":"`+categoryID+`","mediaIds":["`+m.ID+`"]}`, author))
	require.Equal(t, http.StatusCreated, rec.Code)
	post := decodeBody[model.FocusedPost](t, rec)
	require.Equal(t, []string{m.ID}, post.MediaIDs)

	req := authedRequest(http.MethodDelete, "/api/posts/"+post.ID, "", author)
	req.SetPathValue("id", post.ID)
	rec = httptest.NewRecorder()
	f.posts.HandleDelete(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The post's media goes with it.
	_, err = f.media.GetByID(ctx, m.ID)
	assert.Error(t, err)
}

func TestPostDelete_StrangerForbidden(t *testing.T) {
	f := newPostFixture(t)
	author := f.seedMember(t, "author@example.com")
	stranger := f.seedMember(t, "stranger@example.com")
	categoryID := f.seedCategory(t)

	rec := httptest.NewRecorder()
	f.posts.HandleCreate(rec, authedRequest(http.MethodPost, "/api/posts",
		`{"content":"mine","categoryId":"`+categoryID+`"}`, author))
	require.Equal(t, http.StatusCreated, rec.Code)
	post := decodeBody[model.FocusedPost](t, rec)

	req := authedRequest(http.MethodDelete, "/api/posts/"+post.ID, "", stranger)
	req.SetPathValue("id", post.ID)
	rec = httptest.NewRecorder()
	f.posts.HandleDelete(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The author's reward is untouched.
	assert.Equal(t, service.ApplausePostCreated, f.applauseValue(t, author))
}

func TestPostCreate_Unauthenticated(t *testing.T) {
	f := newPostFixture(t)

	rec := httptest.NewRecorder()
	f.posts.HandleCreate(rec, httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQueueCreate_CastingDirectorOnly(t *testing.T) {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	applauseSvc := service.NewApplauseService(db, logger)
	restrictionSvc := service.NewRestrictionService(db, logger)
	opportunitySvc := service.NewOpportunityService(db, logger)
	applicationSvc := service.NewApplicationService(db, db, logger)
	queueSvc := service.NewQueueService(db, logger)
	queues := NewQueueHandler(queueSvc, applicationSvc, applauseSvc, restrictionSvc, logger)

	director := &model.User{Email: "director@example.com", PasswordHash: "hash", Name: "Director"}
	require.NoError(t, db.CreateUser(ctx, director))
	applicant := &model.User{Email: "actor@example.com", PasswordHash: "hash", Name: "Actor"}
	require.NoError(t, db.CreateUser(ctx, applicant))
	for _, id := range []string{director.ID, applicant.ID} {
		_, err := applauseSvc.Initialize(ctx, id)
		require.NoError(t, err)
	}
	_, err = restrictionSvc.Create(ctx, director.ID, []string{model.RoleActor})
	require.NoError(t, err)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	opp, err := opportunitySvc.Create(ctx, director.ID, "Audition", "d", "r", start, start.AddDate(0, 0, 3))
	require.NoError(t, err)
	_, err = applicationSvc.Create(ctx, applicant.ID, opp.ID, "pick me", nil)
	require.NoError(t, err)

	body := `{"opportunityId":"` + opp.ID + `","startTime":"2026-09-30T09:00:00Z","minutesPer":15}`

	// Owning the listing is not enough without the role.
	rec := httptest.NewRecorder()
	queues.HandleCreate(rec, authedRequest(http.MethodPost, "/api/queues", body, director.ID))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, err = restrictionSvc.Edit(ctx, director.ID, []string{model.RoleCastingDirector})
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	queues.HandleCreate(rec, authedRequest(http.MethodPost, "/api/queues", body, director.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	queue := decodeBody[model.Queue](t, rec)
	assert.Equal(t, []string{applicant.ID}, queue.Applicants)
}

func TestCategoryCreate_AdminOnly(t *testing.T) {
	f := newPostFixture(t)
	member := f.seedMember(t, "member@example.com")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	restrictions := service.NewRestrictionService(f.db, logger)
	_, err := restrictions.Create(context.Background(), member, []string{model.RoleActor})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.posts.HandleCreateCategory(rec, authedRequest(http.MethodPost, "/api/categories",
		`{"name":"scenes"}`, member))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Granting admin flips the outcome.
	_, err = restrictions.Edit(context.Background(), member, []string{model.RoleAdmin})
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	f.posts.HandleCreateCategory(rec, authedRequest(http.MethodPost, "/api/categories",
		`{"name":"scenes"}`, member))
	assert.Equal(t, http.StatusCreated, rec.Code)
}
