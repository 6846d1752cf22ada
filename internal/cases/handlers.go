package cases

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cembalci/casedesk/internal/auth"
	"github.com/cembalci/casedesk/pkg/apperr"
	"github.com/cembalci/casedesk/pkg/models"
	"github.com/cembalci/casedesk/pkg/sanitize"
)

// ===== DTOs =====

type CaseListItem struct {
	ID         uuid.UUID         `json:"id"`
	CaseNumber string            `json:"case_number"`
	Title      string            `json:"title"`
	Type       models.CaseType   `json:"type"`
	Status     models.CaseStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	Preview    string            `json:"preview"`
}

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

// Create Case godoc
// @Summary      Create case
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateCaseInput  true  "Case payload"
// @Success      201  {object}  models.Case
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      409  {object}  models.ErrorResponse  "case number already exists"
// @Router       /cases [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateCaseInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	cs, err := h.svc.Create(c.Context(), in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cs)
}

// Update Case godoc
// @Summary      Update case (partial)
// @Description  Omitted fields are left unchanged; status changes must follow the lifecycle
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string           true  "case id (uuid)"
// @Param        payload  body  UpdateCaseInput  true  "Fields to change"
// @Success      200  {object}  models.Case
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [patch]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateCaseInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	actor, _ := uuid.Parse(auth.MustUserID(c))
	cs, err := h.svc.Update(c.Context(), id, in, actor)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(cs)
}

// Delete Case godoc
// @Summary      Delete case
// @Description  Cascades hearings, documents and client associations
// @Tags         cases
// @Security     BearerAuth
// @Param        id  path  string  true  "case id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [delete]
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

// Get Case godoc
// @Summary      Case detail
// @Description  Includes hearings and documents
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "case id (uuid)"
// @Success      200  {object}  models.Case
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cs, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(cs)
}

// Get Case By Number godoc
// @Summary      Case lookup by case number
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        number  path  string  true  "case number"
// @Success      200  {object}  models.Case
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/number/{number} [get]
func (h *Handler) GetByNumber(c *fiber.Ctx) error {
	cs, err := h.svc.GetByNumber(c.Context(), c.Params("number"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(cs)
}

// List Cases godoc
// @Summary      List cases
// @Description  Optional ?status= and ?type= filters; descriptions are redacted into previews
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "status filter"
// @Param        type    query  string  false  "type filter"
// @Success      200  {array}  CaseListItem
// @Failure      400  {object}  models.ErrorResponse
// @Router       /cases [get]
func (h *Handler) List(c *fiber.Ctx) error {
	var (
		list []models.Case
		err  error
	)
	switch {
	case c.Query("status") != "":
		status := models.CaseStatus(c.Query("status"))
		switch status {
		case models.CaseNew, models.CaseActive, models.CasePending, models.CaseClosed, models.CaseArchived:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
		}
		list, err = h.svc.FilterByStatus(c.Context(), status)
	case c.Query("type") != "":
		t := models.CaseType(c.Query("type"))
		switch t {
		case models.CaseTypeCivil, models.CaseTypeCriminal, models.CaseTypeFamily,
			models.CaseTypeCorporate, models.CaseTypeOther:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid type filter")
		}
		list, err = h.svc.FilterByType(c.Context(), t)
	default:
		list, err = h.svc.List(c.Context())
	}
	if err != nil {
		return apperr.Respond(c, err)
	}

	items := make([]CaseListItem, 0, len(list))
	for _, cs := range list {
		items = append(items, CaseListItem{
			ID:         cs.ID,
			CaseNumber: cs.CaseNumber,
			Title:      cs.Title,
			Type:       cs.Type,
			Status:     cs.Status,
			CreatedAt:  cs.CreatedAt,
			Preview:    sanitize.Summary(sanitize.RedactPII(cs.Description), 240),
		})
	}
	return c.JSON(items)
}

/* ========================== Association routes ========================== */

// Add Client godoc
// @Summary      Link client to case
// @Description  Idempotent: linking an already linked pair is a no-op
// @Tags         cases
// @Security     BearerAuth
// @Param        id        path  string  true  "case id (uuid)"
// @Param        clientID  path  string  true  "client id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/clients/{clientID} [post]
func (h *Handler) AddClient(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	clientID, err := parseID(c, "clientID")
	if err != nil {
		return err
	}
	if err := h.svc.AddClient(c.Context(), caseID, clientID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Remove Client godoc
// @Summary      Unlink client from case
// @Tags         cases
// @Security     BearerAuth
// @Param        id        path  string  true  "case id (uuid)"
// @Param        clientID  path  string  true  "client id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse  "pair is not associated"
// @Router       /cases/{id}/clients/{clientID} [delete]
func (h *Handler) RemoveClient(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	clientID, err := parseID(c, "clientID")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveClient(c.Context(), caseID, clientID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clients For Case godoc
// @Summary      Clients linked to a case
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "case id (uuid)"
// @Success      200  {array}  models.Client
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/clients [get]
func (h *Handler) ClientsForCase(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.svc.ClientsForCase(c.Context(), caseID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(list)
}

// Cases For Client godoc
// @Summary      Cases a client is linked to
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "client id (uuid)"
// @Success      200  {array}  models.Case
// @Failure      404  {object}  models.ErrorResponse
// @Router       /clients/{id}/cases [get]
func (h *Handler) CasesForClient(c *fiber.Ctx) error {
	clientID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.svc.CasesForClient(c.Context(), clientID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(list)
}
