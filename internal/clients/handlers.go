package clients

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cembalci/casedesk/pkg/apperr"
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

// Create Client godoc
// @Summary      Create client
// @Tags         clients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateClientInput  true  "Client payload"
// @Success      201  {object}  models.Client
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      409  {object}  models.ErrorResponse  "email already in use"
// @Router       /clients [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateClientInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	cl, err := h.svc.Create(c.Context(), in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cl)
}

// Update Client godoc
// @Summary      Update client (partial)
// @Description  Omitted fields are left unchanged
// @Tags         clients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string             true  "client id (uuid)"
// @Param        payload  body  UpdateClientInput  true  "Fields to change"
// @Success      200  {object}  models.Client
// @Failure      404  {object}  models.ErrorResponse
// @Router       /clients/{id} [patch]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateClientInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	cl, err := h.svc.Update(c.Context(), id, in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(cl)
}

// Delete Client godoc
// @Summary      Delete client
// @Description  Also removes the client's case associations
// @Tags         clients
// @Security     BearerAuth
// @Param        id  path  string  true  "client id (uuid)"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /clients/{id} [delete]
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

// Get Client godoc
// @Summary      Client detail
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "client id (uuid)"
// @Success      200  {object}  models.Client
// @Failure      404  {object}  models.ErrorResponse
// @Router       /clients/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cl, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(cl)
}

// List Clients godoc
// @Summary      List clients
// @Description  Optional ?q= filters by name or surname
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Param        q  query  string  false  "name/surname filter"
// @Success      200  {array}  models.Client
// @Router       /clients [get]
func (h *Handler) List(c *fiber.Ctx) error {
	q := c.Query("q")
	if q != "" {
		list, err := h.svc.SearchByName(c.Context(), q)
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(list)
	}
	list, err := h.svc.List(c.Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(list)
}
