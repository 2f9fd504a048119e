package server

import (
	"strconv"
	"strings"

	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// voteInputFromRoute builds a VoteInput from the :targetType/:targetId
// route segments. Value stays zero until the body is parsed.
func (s *Server) voteInputFromRoute(c *fiber.Ctx) (service.VoteInput, error) {
	targetID, err := s.parseID(c, "targetId")
	if err != nil {
		return service.VoteInput{}, err
	}
	return service.VoteInput{
		UserID:     c.Locals("userID").(uint),
		TargetType: c.Params("targetType"),
		TargetID:   targetID,
	}, nil
}

type voteBody struct {
	Value int `json:"value"`
}

// CastVote handles POST /api/votes/:targetType/:targetId
func (s *Server) CastVote(c *fiber.Ctx) error {
	in, err := s.voteInputFromRoute(c)
	if err != nil {
		return nil
	}

	var body voteBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.Value = body.Value

	counts, err := s.voteService.Cast(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(counts)
}

// ChangeVote handles PUT /api/votes/:targetType/:targetId
func (s *Server) ChangeVote(c *fiber.Ctx) error {
	in, err := s.voteInputFromRoute(c)
	if err != nil {
		return nil
	}

	var body voteBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.Value = body.Value

	counts, err := s.voteService.Change(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}

// RetractVote handles DELETE /api/votes/:targetType/:targetId
func (s *Server) RetractVote(c *fiber.Ctx) error {
	in, err := s.voteInputFromRoute(c)
	if err != nil {
		return nil
	}

	counts, err := s.voteService.Retract(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}

// GetVoteCounts handles GET /api/votes/:targetType?ids=1,2,3 returning
// aggregate tallies for a batch of targets in one response.
func (s *Server) GetVoteCounts(c *fiber.Ctx) error {
	targetType := c.Params("targetType")

	idsParam := c.Query("ids")
	if idsParam == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("ids query parameter is required"))
	}

	var ids []uint
	for _, part := range strings.Split(idsParam, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil || id == 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("ids must be positive integers"))
		}
		ids = append(ids, uint(id))
	}

	userID, _ := s.optionalUserID(c)
	counts, err := s.voteService.CountsBatch(c.Context(), targetType, ids, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}
