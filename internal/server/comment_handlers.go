package server

import (
	"strings"

	"campushub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments/?post=:id and returns the post's
// comments oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID := c.QueryInt("post")
	if postID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post query parameter is required"))
	}

	comments, err := s.commentRepo.ListByPostID(c.Context(), uint(postID))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/comments/. The parent post must exist;
// comments are never re-parented afterwards.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Post    uint   `json:"post"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment content is required"))
	}

	if _, err := s.postRepo.GetByID(c.Context(), req.Post, 0); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", req.Post))
	}

	comment := &models.Comment{
		PostID:   req.Post,
		Content:  req.Content,
		AuthorID: s.currentUserID(c),
	}

	if err := s.commentRepo.Create(c.Context(), comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
