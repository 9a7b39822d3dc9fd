package server

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	args := m.Called(ctx, post, tagNames)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.PostFilter, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, filter, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ByAuthor(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ByAuthors(ctx context.Context, userIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userIDs, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Likers(ctx context.Context, postID uint) ([]string, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]string), args.Error(1)
}

// MockTagRepository is a mock of the TagRepository interface
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) List(ctx context.Context, limit, offset int) ([]models.Tag, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) UpsertByName(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByIDForPost(ctx context.Context, id, postID uint) (*models.Comment, error) {
	args := m.Called(ctx, id, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	args := m.Called(ctx, postID, limit, offset)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByAuthor(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id, postID uint) error {
	args := m.Called(ctx, id, postID)
	return args.Error(0)
}

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

// MockFollowRepository is a mock of the FollowRepository interface
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockFollowRepository) Create(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

// testMocks bundles the repository mocks behind a Server wired with real services.
type testMocks struct {
	users    *MockUserRepository
	tags     *MockTagRepository
	posts    *MockPostRepository
	comments *MockCommentRepository
	follows  *MockFollowRepository
}

func newTestServer() (*Server, *testMocks) {
	m := &testMocks{
		users:    new(MockUserRepository),
		tags:     new(MockTagRepository),
		posts:    new(MockPostRepository),
		comments: new(MockCommentRepository),
		follows:  new(MockFollowRepository),
	}
	s := &Server{
		userRepo:    m.users,
		tagRepo:     m.tags,
		postRepo:    m.posts,
		commentRepo: m.comments,
		followRepo:  m.follows,
	}
	s.tagService = service.NewTagService(m.tags, m.users)
	s.postService = service.NewPostService(m.posts, m.tags, m.comments)
	s.commentService = service.NewCommentService(m.comments, m.posts)
	s.feedService = service.NewFeedService(m.posts, m.follows)
	return s, m
}

// authStub injects a fixed user ID like the auth middleware would.
func authStub(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}
