package controller

import (
	"studynotes-be/internal/dto"
	"studynotes-be/internal/pkg/serverutils"
	"studynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBookmarkController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Add(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
}

type bookmarkController struct {
	service service.IBookmarkService
}

func NewBookmarkController(service service.IBookmarkService) IBookmarkController {
	return &bookmarkController{service: service}
}

func (c *bookmarkController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/bookmark/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Add)
	h.Delete(":id", c.Remove)
}

func (c *bookmarkController) List(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bookmarks", res))
}

func (c *bookmarkController) Add(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.AddBookmarkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Add(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrInvalidSectionIndex {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bookmark saved", res))
}

func (c *bookmarkController) Remove(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid bookmark id"))
	}

	if err := c.service.Remove(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Bookmark removed", nil))
}
