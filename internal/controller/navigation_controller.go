package controller

import (
	"studynotes-be/internal/dto"
	"studynotes-be/internal/pkg/serverutils"
	"studynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// navigationController exposes the per-user navigation state machine.
// Every handler returns the fresh snapshot so the client can render
// without a second round trip.
type INavigationController interface {
	RegisterRoutes(r fiber.Router)
	Snapshot(ctx *fiber.Ctx) error
	Start(ctx *fiber.Ctx) error
	SelectClass(ctx *fiber.Ctx) error
	SelectSubject(ctx *fiber.Ctx) error
	GenerateNotes(ctx *fiber.Ctx) error
	OpenBookmark(ctx *fiber.Ctx) error
	OpenBookmarks(ctx *fiber.Ctx) error
	OpenSyllabusAnalysis(ctx *fiber.Ctx) error
	AskTutor(ctx *fiber.Ctx) error
	ConsumeTutorQuery(ctx *fiber.Ctx) error
	ConsumeTargetSection(ctx *fiber.Ctx) error
	Back(ctx *fiber.Ctx) error
	ResetHome(ctx *fiber.Ctx) error
}

type navigationController struct {
	service service.INavigationService
}

func NewNavigationController(service service.INavigationService) INavigationController {
	return &navigationController{service: service}
}

func (c *navigationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/navigation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/state", c.Snapshot)
	h.Post("/start", c.Start)
	h.Post("/class", c.SelectClass)
	h.Post("/subject", c.SelectSubject)
	h.Post("/notes", c.GenerateNotes)
	h.Post("/bookmark/open", c.OpenBookmark)
	h.Post("/bookmarks", c.OpenBookmarks)
	h.Post("/syllabus", c.OpenSyllabusAnalysis)
	h.Post("/ask-tutor", c.AskTutor)
	h.Post("/consume/tutor-query", c.ConsumeTutorQuery)
	h.Post("/consume/target-section", c.ConsumeTargetSection)
	h.Post("/back", c.Back)
	h.Post("/home", c.ResetHome)
}

func (c *navigationController) Snapshot(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	return ctx.JSON(serverutils.SuccessResponse("View state", c.service.Snapshot(userId)))
}

func (c *navigationController) Start(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	return ctx.JSON(serverutils.SuccessResponse("Started", c.service.Start(userId)))
}

func (c *navigationController) SelectClass(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.SelectClassRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SelectClass(userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Class selected", res))
}

func (c *navigationController) SelectSubject(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.SelectSubjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SelectSubject(userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subject selected", res))
}

func (c *navigationController) GenerateNotes(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.GenerateNotesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GenerateNotes(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notes generated", res))
}

func (c *navigationController) OpenBookmark(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.OpenBookmarkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.OpenBookmark(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrBookmarkNotFound {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bookmark opened", res))
}

func (c *navigationController) OpenBookmarks(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	return ctx.JSON(serverutils.SuccessResponse("Bookmarks", c.service.OpenBookmarks(userId)))
}

func (c *navigationController) OpenSyllabusAnalysis(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	return ctx.JSON(serverutils.SuccessResponse("Syllabus analysis", c.service.OpenSyllabusAnalysis(userId)))
}

func (c *navigationController) AskTutor(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var req dto.AskTutorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Tutor opened", c.service.AskTutor(userId, &req)))
}

func (c *navigationController) ConsumeTutorQuery(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	return ctx.JSON(serverutils.SuccessResponse("Tutor query", c.service.ConsumeTutorQuery(userId)))
}

func (c *navigationController) ConsumeTargetSection(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	return ctx.JSON(serverutils.SuccessResponse("Target section", c.service.ConsumeTargetSection(userId)))
}

func (c *navigationController) Back(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	return ctx.JSON(serverutils.SuccessResponse("Back", c.service.Back(userId)))
}

func (c *navigationController) ResetHome(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)
	return ctx.JSON(serverutils.SuccessResponse("Home", c.service.ResetHome(userId)))
}
