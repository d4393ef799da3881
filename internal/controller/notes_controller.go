package controller

import (
	"studynotes-be/internal/dto"
	"studynotes-be/internal/entity"
	"studynotes-be/internal/pkg/serverutils"
	"studynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotesController interface {
	RegisterRoutes(r fiber.Router)
	GetChapters(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
}

type notesController struct {
	service service.INotesService
}

func NewNotesController(service service.INotesService) INotesController {
	return &notesController{service: service}
}

func (c *notesController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/chapters", c.GetChapters)
	h.Post("/generate", c.Generate)
}

// Generate produces a note outside the navigation flow; the caller
// supplies the full selection and no view state is touched.
func (c *notesController) Generate(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.GenerateNotesDirectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	note, err := c.service.GenerateNotes(ctx.Context(), userId,
		entity.ClassLevel(req.ClassLevel), entity.Subject(req.Subject), req.Topic)
	if err != nil {
		if err == service.ErrInvalidClassLevel || err == service.ErrInvalidSubject {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notes generated", &dto.GenerateNotesResponse{Note: note}))
}

// GetChapters serves the chapter catalogue directly. A fetch failure is
// reported inside a 200 payload; the client falls back to free-text
// topic entry rather than an error screen.
func (c *notesController) GetChapters(ctx *fiber.Ctx) error {
	var req dto.GetChaptersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	categories, err := c.service.GetChapters(ctx.Context(), entity.ClassLevel(req.ClassLevel), entity.Subject(req.Subject))
	if err != nil {
		if err == service.ErrInvalidClassLevel || err == service.ErrInvalidSubject {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return ctx.JSON(serverutils.SuccessResponse("Chapter list unavailable", &dto.GetChaptersResponse{
			Categories: []entity.ChapterCategory{},
			Error:      "Could not load the chapter list. Enter a topic manually.",
		}))
	}

	return ctx.JSON(serverutils.SuccessResponse("Chapter list", &dto.GetChaptersResponse{Categories: categories}))
}
