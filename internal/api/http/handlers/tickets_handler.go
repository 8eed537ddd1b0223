package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-reminder/internal/api/dto"
	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/service"
	apperrors "github.com/spec-kit/ticket-reminder/pkg/util/errorutil"
)

// TicketsHandler manages dashboard ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListPeople GET /people.
func (h *TicketsHandler) ListPeople(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.People()})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	board, err := h.service.ListBoard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketBoardResponse{
		Active:      dto.NewTicketResponses(board.Active),
		Closed:      dto.NewTicketResponses(board.Closed),
		ActiveCount: len(board.Active),
		ClosedCount: len(board.Closed),
	}})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	submitted, err := parseDate("date_submitted", req.DateSubmitted)
	if err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Issue:         req.Issue,
		Priority:      req.Priority,
		CreatedBy:     req.CreatedBy,
		AssignedTo:    req.AssignedTo,
		DateSubmitted: submitted,
		Comments:      req.Comments,
		Notify:        req.Notify,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// UpdateTicket PATCH /tickets/:page_id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketUpdateInput{
		Issue:    req.Issue,
		Status:   req.Status,
		Priority: req.Priority,
		Comments: req.Comments,
	}
	if req.ResolvedDate != nil {
		resolved, err := parseDate("resolved_date", *req.ResolvedDate)
		if err != nil {
			return err
		}
		input.ResolvedDate = resolved
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("page_id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

func parseDate(field, val string) (*time.Time, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, val)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{field: "expected YYYY-MM-DD"})
	}
	return &t, nil
}
