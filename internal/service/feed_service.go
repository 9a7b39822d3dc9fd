package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// FeedService composes post listings: the public board, the caller's own
// board and the follow-based feed.
type FeedService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
}

type ListPostsInput struct {
	CurrentUserID uint
	Title         string
	TagIDs        []uint
	Limit         int
	Offset        int
}

func NewFeedService(postRepo repository.PostRepository, followRepo repository.FollowRepository) *FeedService {
	return &FeedService{postRepo: postRepo, followRepo: followRepo}
}

func (s *FeedService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	filter := repository.PostFilter{Title: in.Title, TagIDs: in.TagIDs}
	return s.postRepo.List(ctx, filter, in.Limit, in.Offset, in.CurrentUserID)
}

// MyPosts returns the caller's own posts.
func (s *FeedService) MyPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ByAuthor(ctx, userID, limit, offset, userID)
}

// FollowingFeed returns posts authored by the users the caller follows.
// Following no one yields an empty feed, never an error.
func (s *FeedService) FollowingFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	followees, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followees) == 0 {
		return []*models.Post{}, nil
	}
	return s.postRepo.ByAuthors(ctx, followees, limit, offset, userID)
}
