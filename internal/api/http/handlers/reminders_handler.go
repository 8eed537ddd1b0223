package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-reminder/internal/api/dto"
	"github.com/spec-kit/ticket-reminder/internal/service"
)

// RemindersHandler triggers reminder runs and reads the run log.
type RemindersHandler struct {
	service *service.ReminderService
}

// NewRemindersHandler constructs handler.
func NewRemindersHandler(reminderService *service.ReminderService) *RemindersHandler {
	return &RemindersHandler{service: reminderService}
}

// Run POST /reminders/run.
func (h *RemindersHandler) Run(c *fiber.Ctx) error {
	run, err := h.service.Run(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReminderRunResponse(run)})
}

// ListRuns GET /reminders/runs.
func (h *RemindersHandler) ListRuns(c *fiber.Ctx) error {
	runs, err := h.service.RecentRuns(c.UserContext(), parseInt(c.Query("limit"), 20))
	if err != nil {
		return err
	}
	items := make([]dto.ReminderRunResponse, 0, len(runs))
	for i := range runs {
		items = append(items, dto.NewReminderRunResponse(&runs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListDeliveries GET /reminders/runs/:id/deliveries.
func (h *RemindersHandler) ListDeliveries(c *fiber.Ctx) error {
	deliveries, err := h.service.RunDeliveries(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDeliveryResponses(deliveries)})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
