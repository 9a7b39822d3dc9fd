package service

import (
	"context"
	"strings"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  1,
			PostID:  1,
			Content: strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewCommentService(noopCommentRepo(), postRepo)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 99, Content: "hi"})
		assertNotFoundError(t, err)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 42
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		comment, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 5, Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, uint(42), comment.ID)
		assert.Equal(t, uint(5), comment.PostID)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("author deletes", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDForPostFn = func(_ context.Context, id, postID uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: postID, UserID: 1}, nil
		}
		deleted := false
		commentRepo.deleteFn = func(_ context.Context, id, postID uint) error {
			assert.Equal(t, uint(9), id)
			assert.Equal(t, uint(5), postID)
			deleted = true
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())

		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 1, PostID: 5, CommentID: 9})
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("non-author is refused with the denial message", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDForPostFn = func(_ context.Context, id, postID uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: postID, UserID: 2}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())

		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 1, PostID: 5, CommentID: 9})
		assertForbiddenError(t, err)
		appErr := err.(*models.AppError)
		assert.Equal(t, "You do not have permission to delete this comment.", appErr.Message)
	})

	t.Run("comment on another post reads as not found", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDForPostFn = func(_ context.Context, id, _ uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		svc := NewCommentService(commentRepo, noopPostRepo())

		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 1, PostID: 6, CommentID: 9})
		assertNotFoundError(t, err)
	})
}

func TestCommentService_ListOwnComments(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	var gotUserID uint
	commentRepo.listByAuthorFn = func(_ context.Context, userID uint, _, _ int) ([]*models.Comment, error) {
		gotUserID = userID
		return []*models.Comment{{ID: 1, UserID: userID}}, nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo())

	comments, err := svc.ListOwnComments(context.Background(), 7, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(7), gotUserID)
	assert.Len(t, comments, 1)
}
