package server

import (
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetThreads handles GET /api/threads?sort=new|top|hot
func (s *Server) GetThreads(c *fiber.Ctx) error {
	page := parsePagination(c, 25)
	userID, _ := s.optionalUserID(c)

	threads, err := s.threadService.ListThreads(c.Context(), service.ListThreadsInput{
		Sort:          c.Query("sort", "new"),
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(threads)
}

// GetThread handles GET /api/threads/:id
func (s *Server) GetThread(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	thread, err := s.threadService.GetThread(c.Context(), id, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Thread not found"))
	}
	return c.JSON(thread)
}

// CreateThread handles POST /api/threads
func (s *Server) CreateThread(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		CommunityID uint   `json:"community_id"`
		Title       string `json:"title"`
		Content     string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.CreateThread(c.Context(), service.CreateThreadInput{
		UserID:      userID,
		CommunityID: req.CommunityID,
		Title:       req.Title,
		Content:     req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

// DeleteThread handles DELETE /api/threads/:id
func (s *Server) DeleteThread(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if err := s.threadService.DeleteThread(c.Context(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
