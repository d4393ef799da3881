package controller

import (
	"io"
	"net/http"

	"studynotes-be/internal/dto"
	"studynotes-be/internal/pkg/serverutils"
	"studynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISyllabusController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
}

type syllabusController struct {
	service service.ISyllabusService
}

func NewSyllabusController(service service.ISyllabusService) ISyllabusController {
	return &syllabusController{service: service}
}

func (c *syllabusController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/syllabus/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/analyze", c.Analyze)
}

func (c *syllabusController) Analyze(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing file"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	// Sniff the content; browsers lie about uploaded mime types
	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	analysis, err := c.service.Analyze(ctx.Context(), userId, data, mimeType)
	if err != nil {
		if err == service.ErrSyllabusTooLarge || err == service.ErrUnsupportedSyllabusType {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Syllabus analyzed", &dto.AnalyzeSyllabusResponse{Analysis: analysis}))
}
