package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	ImageURL string   `json:"image_url,omitempty"`
	Tags     []string `json:"tags"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts with optional title and tag filters
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	tagIDs, err := parseTagIDs(c.Query("tags"))
	if err != nil {
		return models.RespondError(c, err)
	}

	posts, err := s.feedService.ListPosts(c.Context(), service.ListPostsInput{
		CurrentUserID: currentUserID(c),
		Title:         c.Query("title"),
		TagIDs:        tagIDs,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(posts)
}

// GetMyBoard handles GET /api/posts/my_board
func (s *Server) GetMyBoard(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.feedService.MyPosts(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(posts)
}

// GetFollowingsFeed handles GET /api/posts/followings
func (s *Server) GetFollowingsFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.feedService.FollowingFeed(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   userID,
		PostID:   postID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); err != nil {
		return models.RespondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/posts/:id/like.
// A first call likes the post, a second call removes the like.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	message, err := s.postService.ToggleLike(c.Context(), userID, postID)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}
