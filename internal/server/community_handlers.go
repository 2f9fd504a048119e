package server

import (
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCommunities handles GET /api/communities
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	page := parsePagination(c, 25)

	communities, err := s.communityService.ListCommunities(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(communities)
}

// GetCommunityBySlug handles GET /api/communities/:slug
func (s *Server) GetCommunityBySlug(c *fiber.Ctx) error {
	community, err := s.communityService.GetCommunity(c.Context(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(community)
}

// GetCommunityThreads handles GET /api/communities/:slug/threads?sort=...
func (s *Server) GetCommunityThreads(c *fiber.Ctx) error {
	community, err := s.communityService.GetCommunity(c.Context(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}

	page := parsePagination(c, 25)
	userID, _ := s.optionalUserID(c)

	threads, err := s.threadService.ListThreads(c.Context(), service.ListThreadsInput{
		Sort:          c.Query("sort", "new"),
		Limit:         page.Limit,
		Offset:        page.Offset,
		CommunityID:   community.ID,
		CurrentUserID: userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(threads)
}

// CreateCommunity handles POST /api/communities
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.CreateCommunity(c.Context(), service.CreateCommunityInput{
		UserID:      userID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(community)
}
