package service

import (
	"context"
	"testing"

	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post, []string) error
	getByIDFn    func(context.Context, uint, uint) (*models.Post, error)
	listFn       func(context.Context, repository.PostFilter, int, int, uint) ([]*models.Post, error)
	byAuthorFn   func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	byAuthorsFn  func(context.Context, []uint, int, int, uint) ([]*models.Post, error)
	updateFn     func(context.Context, *models.Post) error
	deleteFn     func(context.Context, uint) error
	toggleLikeFn func(context.Context, uint, uint) (bool, error)
	likersFn     func(context.Context, uint) ([]string, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	return s.createFn(ctx, post, tagNames)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, filter, limit, offset, currentUserID)
}
func (s *postRepoStub) ByAuthor(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.byAuthorFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) ByAuthors(ctx context.Context, userIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.byAuthorsFn(ctx, userIDs, limit, offset, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *postRepoStub) Likers(ctx context.Context, postID uint) ([]string, error) {
	return s.likersFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post, _ []string) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1}, nil
		},
		listFn: func(_ context.Context, _ repository.PostFilter, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		byAuthorFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		byAuthorsFn: func(_ context.Context, _ []uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn:     func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		toggleLikeFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		likersFn:     func(_ context.Context, _ uint) ([]string, error) { return nil, nil },
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	listFn         func(context.Context, int, int) ([]models.Tag, error)
	getByNameFn    func(context.Context, string) (*models.Tag, error)
	upsertByNameFn func(context.Context, string) (*models.Tag, error)
}

func (s *tagRepoStub) List(ctx context.Context, limit, offset int) ([]models.Tag, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *tagRepoStub) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return s.getByNameFn(ctx, name)
}
func (s *tagRepoStub) UpsertByName(ctx context.Context, name string) (*models.Tag, error) {
	return s.upsertByNameFn(ctx, name)
}

func noopTagRepo() *tagRepoStub {
	nextID := uint(0)
	return &tagRepoStub{
		listFn:      func(_ context.Context, _, _ int) ([]models.Tag, error) { return nil, nil },
		getByNameFn: func(_ context.Context, name string) (*models.Tag, error) { return &models.Tag{Name: name}, nil },
		upsertByNameFn: func(_ context.Context, name string) (*models.Tag, error) {
			nextID++
			return &models.Tag{ID: nextID, Name: name}, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn         func(context.Context, *models.Comment) error
	getByIDForPostFn func(context.Context, uint, uint) (*models.Comment, error)
	listByPostFn     func(context.Context, uint, int, int) ([]*models.Comment, error)
	listByAuthorFn   func(context.Context, uint, int, int) ([]*models.Comment, error)
	deleteFn         func(context.Context, uint, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByIDForPost(ctx context.Context, id, postID uint) (*models.Comment, error) {
	return s.getByIDForPostFn(ctx, id, postID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) ListByAuthor(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByAuthorFn(ctx, userID, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, id, postID uint) error {
	return s.deleteFn(ctx, id, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDForPostFn: func(_ context.Context, id, postID uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: postID, UserID: 1}, nil
		},
		listByPostFn:   func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) { return nil, nil },
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) { return nil, nil },
		deleteFn:       func(_ context.Context, _, _ uint) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followeeIDsFn func(context.Context, uint) ([]uint, error)
	createFn      func(context.Context, uint, uint) error
}

func (s *followRepoStub) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followeeIDsFn(ctx, followerID)
}
func (s *followRepoStub) Create(ctx context.Context, followerID, followeeID uint) error {
	return s.createFn(ctx, followerID, followeeID)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "PERMISSION_DENIED")
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}
