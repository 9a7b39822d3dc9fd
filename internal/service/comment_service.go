package service

import (
	"context"
	"strings"

	"ripple/internal/authz"
	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type DeleteCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreatedTotal.Inc()

	return comment, nil
}

// ListComments returns the post's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}

// ListOwnComments returns only the caller's comments, across all posts.
func (s *CommentService) ListOwnComments(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, error) {
	return s.commentRepo.ListByAuthor(ctx, userID, limit, offset)
}

// DeleteComment removes a comment. The comment must belong to the given post
// and the caller must be its author; a non-author is refused after the
// comment is located, so an existing comment never reads as missing.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByIDForPost(ctx, in.CommentID, in.PostID)
	if err != nil {
		return err
	}
	if err := authz.CanMutate(in.UserID, comment, "delete"); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, in.CommentID, in.PostID)
}
