package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"ripple/internal/authz"
	"ripple/internal/models"
	"ripple/internal/repository"
)

const maxTagNameLen = 255

type TagService struct {
	tagRepo  repository.TagRepository
	userRepo repository.UserRepository
}

func NewTagService(tagRepo repository.TagRepository, userRepo repository.UserRepository) *TagService {
	return &TagService{tagRepo: tagRepo, userRepo: userRepo}
}

func (s *TagService) ListTags(ctx context.Context, limit, offset int) ([]models.Tag, error) {
	return s.tagRepo.List(ctx, limit, offset)
}

// CreateTag creates a standalone tag. Only staff may do this; creating a tag
// that already exists returns the existing row.
func (s *TagService) CreateTag(ctx context.Context, userID uint, name string) (*models.Tag, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanCreateTag(user); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Tag name is required")
	}
	if utf8.RuneCountInString(name) > maxTagNameLen {
		return nil, models.NewValidationError("Tag name too long (max 255 characters)")
	}

	return s.tagRepo.UpsertByName(ctx, name)
}
