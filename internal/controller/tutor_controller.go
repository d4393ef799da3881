package controller

import (
	"studynotes-be/internal/dto"
	"studynotes-be/internal/pkg/serverutils"
	"studynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITutorController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type tutorController struct {
	service service.ITutorService
}

func NewTutorController(service service.ITutorService) ITutorController {
	return &tutorController{service: service}
}

func (c *tutorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tutor/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions", c.ListSessions)
	h.Post("/chat", c.SendChat)
	h.Get("/sessions/:id/messages", c.GetHistory)
	h.Delete("/sessions/:id", c.DeleteSession)
}

func (c *tutorController) CreateSession(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.CreateTutorSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tutor session created", res))
}

func (c *tutorController) SendChat(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.SendTutorChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrTutorSessionNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reply", res))
}

func (c *tutorController) ListSessions(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	res, err := c.service.ListSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tutor sessions", res))
}

func (c *tutorController) GetHistory(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session id"))
	}

	res, err := c.service.GetHistory(ctx.Context(), userId, id)
	if err != nil {
		if err == service.ErrTutorSessionNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tutor history", res))
}

func (c *tutorController) DeleteSession(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session id"))
	}

	if err := c.service.DeleteSession(ctx.Context(), userId, id); err != nil {
		if err == service.ErrTutorSessionNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Tutor session deleted", nil))
}
