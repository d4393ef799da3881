package controller

import (
	"studynotes-be/internal/pkg/serverutils"
	"studynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router)
	History(ctx *fiber.Ctx) error
}

type activityController struct {
	service service.IActivityService
}

func NewActivityController(service service.IActivityService) IActivityController {
	return &activityController{service: service}
}

func (c *activityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/activity/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.History)
}

func (c *activityController) History(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.History(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Activity history", res))
}
