package documents

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

// Create Document godoc
// @Summary      Attach document to case
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateDocumentInput  true  "Document payload"
// @Success      201  {object}  models.Document
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /documents [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateDocumentInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	doc, err := h.svc.Create(c.Context(), in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Update Document godoc
// @Summary      Update document (partial)
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "document id (uuid)"
// @Param        payload  body  UpdateDocumentInput  true  "Fields to change"
// @Success      200  {object}  models.Document
// @Failure      404  {object}  models.ErrorResponse
// @Router       /documents/{id} [patch]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateDocumentInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	doc, err := h.svc.Update(c.Context(), id, in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(doc)
}

// Delete Document godoc
// @Summary      Delete document
// @Tags         documents
// @Security     BearerAuth
// @Param        id  path  string  true  "document id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /documents/{id} [delete]
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

// Get Document godoc
// @Summary      Document detail
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "document id (uuid)"
// @Success      200  {object}  models.Document
// @Failure      404  {object}  models.ErrorResponse
// @Router       /documents/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	doc, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(doc)
}

// List Documents godoc
// @Summary      List documents
// @Description  Requires ?case= or ?type=
// @Tags         documents
// @Security     BearerAuth
// @Produce      json
// @Param        case  query  string  false  "case id (uuid)"
// @Param        type  query  string  false  "type filter"
// @Success      200  {array}  models.Document
// @Failure      400  {object}  models.ErrorResponse
// @Router       /documents [get]
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
	if q := c.Query("type"); q != "" {
		t := models.DocumentType(q)
		switch t {
		case models.DocContract, models.DocEvidence, models.DocPetition,
			models.DocCourtOrder, models.DocOther:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid type filter")
		}
		list, err := h.svc.FilterByType(c.Context(), t)
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(list)
	}
	return fiber.NewError(fiber.StatusBadRequest, "case or type query required")
}
