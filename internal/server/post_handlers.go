package server

import (
	"errors"

	"campushub/internal/gateway"
	"campushub/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetPosts handles GET /api/posts/
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.Context(), s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(posts)
}

// GetUnmoderatedPosts handles GET /api/posts/unmoderated/ — the pending-only
// listing behind the awaiting-moderation view. It is a separate data path
// from GetPosts, restricted to moderators and admins.
func (s *Server) GetUnmoderatedPosts(c *fiber.Ctx) error {
	if !s.callerCanModerate(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only moderators can view unmoderated posts"))
	}

	posts, err := s.postRepo.ListByStatus(c.Context(), models.StatusPending, s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id/
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	post, err := s.postRepo.GetByID(c.Context(), uint(id), s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts/. New posts always start pending.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req gateway.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and content are required"))
	}

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		AuthorID: s.currentUserID(c),
		Status:   models.StatusPending,
	}

	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), post.ID, s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id/. The author, a moderator, or an
// admin may delete a post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	post, err := s.postRepo.GetByID(c.Context(), uint(id), s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}

	if post.AuthorID != s.currentUserID(c) && !s.callerCanModerate(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("You can only delete your own posts"))
	}

	if err := s.postRepo.Delete(c.Context(), uint(id)); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ModeratePost handles POST /api/posts/:id/moderate/ with an explicit
// approve/reject action label. Either action may be issued from any status;
// the response carries the resulting status, which clients must treat as
// authoritative.
func (s *Server) ModeratePost(c *fiber.Ctx) error {
	if !s.callerCanModerate(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only moderators can moderate posts"))
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var status models.PostStatus
	switch gateway.ModerateAction(req.Action) {
	case gateway.ActionApprove:
		status = models.StatusApproved
	case gateway.ActionReject:
		status = models.StatusRejected
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Action must be approve or reject"))
	}

	if _, err := s.postRepo.GetByID(c.Context(), uint(id), 0); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}

	if err := s.postRepo.UpdateStatus(c.Context(), uint(id), status); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	post, err := s.postRepo.GetByID(c.Context(), uint(id), s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(post)
}

// LikePost handles POST /api/posts/:id/like/ with a like/dislike action
// label. The response carries the authoritative like state derived from the
// (user, post) like set.
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := s.currentUserID(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	action := gateway.LikeAction(req.Action)
	if action == "" {
		action = gateway.ActionLike
	}
	if action != gateway.ActionLike && action != gateway.ActionDislike {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Action must be like or dislike"))
	}

	if _, err := s.postRepo.GetByID(c.Context(), uint(id), 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	liked, err := s.postRepo.IsLiked(c.Context(), userID, uint(id))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// Idempotent per action label: a like when already liked (or a dislike
	// when not) changes nothing but still reports the current state.
	switch {
	case action == gateway.ActionLike && !liked:
		err = s.postRepo.Like(c.Context(), userID, uint(id))
	case action == gateway.ActionDislike && liked:
		err = s.postRepo.Unlike(c.Context(), userID, uint(id))
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	isLiked := action == gateway.ActionLike
	count, err := s.postRepo.LikeCount(c.Context(), uint(id))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(gateway.LikeResult{
		IsLiked:   isLiked,
		LikeCount: &count,
		Status:    "post " + string(action) + "d",
	})
}

// callerCanModerate reports whether the request's role claim allows
// moderation actions.
func (s *Server) callerCanModerate(c *fiber.Ctx) bool {
	role, ok := c.Locals("role").(models.Role)
	return ok && role.CanModerate()
}
