package server

import (
	"time"

	"campusfeed/internal/models"
	"campusfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPolls handles GET /api/polls
// @Summary List polls
// @Tags polls
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Poll
// @Router /polls [get]
func (s *Server) GetPolls(c *fiber.Ctx) error {
	page := parsePagination(c)
	polls, err := s.pollService.ListPolls(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(polls)
}

// GetPoll handles GET /api/polls/:id
// @Summary Get poll
// @Tags polls
// @Produce json
// @Param id path int true "Poll ID"
// @Success 200 {object} models.Poll
// @Failure 404 {object} models.ErrorResponse
// @Router /polls/{id} [get]
func (s *Server) GetPoll(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	poll, err := s.pollService.GetPoll(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(poll)
}

// CreatePoll handles POST /api/polls. The body carries the poll fields plus
// an options array; entries that are not strings are ignored.
// @Summary Create poll
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{question=string,isPrediction=bool,expiresAt=string,options=[]string} true "Poll"
// @Success 201 {object} models.Poll
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /polls [post]
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	var req struct {
		Question     string     `json:"question"`
		IsPrediction bool       `json:"isPrediction"`
		ExpiresAt    *time.Time `json:"expiresAt"`
		Options      []any      `json:"options"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Options == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Poll must have at least 2 options"))
	}

	texts := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		if text, ok := o.(string); ok {
			texts = append(texts, text)
		}
	}

	poll, err := s.counters.CreatePollWithOptions(c.UserContext(), service.CreatePollInput{
		AuthorID:     currentUserID(c),
		Question:     req.Question,
		IsPrediction: req.IsPrediction,
		ExpiresAt:    req.ExpiresAt,
	}, texts)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(poll)
}

// VoteOnPollOption handles POST /api/polls/vote/:optionId
// @Summary Vote
// @Description Adds one vote to the option and to its poll's total
// @Tags polls
// @Produce json
// @Security BearerAuth
// @Param optionId path int true "Option ID"
// @Success 200 {object} models.PollOption
// @Failure 404 {object} models.ErrorResponse
// @Router /polls/vote/{optionId} [post]
func (s *Server) VoteOnPollOption(c *fiber.Ctx) error {
	optionID, err := s.parseID(c, "optionId")
	if err != nil {
		return nil
	}
	option, err := s.counters.VoteOnPollOption(c.UserContext(), optionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(option)
}
