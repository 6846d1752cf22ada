package hearings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cembalci/casedesk/pkg/apperr"
	"github.com/cembalci/casedesk/pkg/models"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// Create Hearing godoc
// @Summary      Schedule hearing
// @Description  The hearing date is stored at second precision
// @Tags         hearings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateHearingInput  true  "Hearing payload"
// @Success      201  {object}  models.Hearing
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /hearings [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateHearingInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	hr, err := h.svc.Create(c.Context(), in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(hr)
}

// Update Hearing godoc
// @Summary      Update hearing (partial)
// @Tags         hearings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string              true  "hearing id (uuid)"
// @Param        payload  body  UpdateHearingInput  true  "Fields to change"
// @Success      200  {object}  models.Hearing
// @Failure      404  {object}  models.ErrorResponse
// @Router       /hearings/{id} [patch]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateHearingInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	hr, err := h.svc.Update(c.Context(), id, in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(hr)
}

// Delete Hearing godoc
// @Summary      Delete hearing
// @Tags         hearings
// @Security     BearerAuth
// @Param        id  path  string  true  "hearing id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /hearings/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Get Hearing godoc
// @Summary      Hearing detail
// @Tags         hearings
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "hearing id (uuid)"
// @Success      200  {object}  models.Hearing
// @Failure      404  {object}  models.ErrorResponse
// @Router       /hearings/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	hr, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(hr)
}

// List Hearings godoc
// @Summary      List hearings
// @Description  Requires ?case= or ?status=
// @Tags         hearings
// @Security     BearerAuth
// @Produce      json
// @Param        case    query  string  false  "case id (uuid)"
// @Param        status  query  string  false  "status filter"
// @Success      200  {array}  models.Hearing
// @Failure      400  {object}  models.ErrorResponse
// @Router       /hearings [get]
func (h *Handler) List(c *fiber.Ctx) error {
	if q := c.Query("case"); q != "" {
		caseID, err := uuid.Parse(q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
		}
		list, err := h.svc.ListByCase(c.Context(), caseID)
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(list)
	}
	if q := c.Query("status"); q != "" {
		status := models.HearingStatus(q)
		switch status {
		case models.HearingScheduled, models.HearingCompleted,
			models.HearingPostponed, models.HearingCancelled:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
		}
		list, err := h.svc.FilterByStatus(c.Context(), status)
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(list)
	}
	return fiber.NewError(fiber.StatusBadRequest, "case or status query required")
}
