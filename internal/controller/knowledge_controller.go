package controller

import (
	"io"

	"voice-ai-be/internal/pkg/apperrors"
	"voice-ai-be/internal/pkg/serverutils"
	"voice-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	DeleteFile(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service service.IKnowledgeService
}

func NewKnowledgeController(service service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{service: service}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload", c.Upload)
	r.Delete("/delete-file", c.DeleteFile)
}

func (c *knowledgeController) Upload(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "multipart form required"))
	}

	sessionID := ctx.FormValue("session_id")
	if sessionID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "session_id is required"))
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "at least one file is required"))
	}

	files := make([]service.IngestFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		files = append(files, service.IngestFile{Filename: fh.Filename, Content: content})
	}

	res, err := c.service.Ingest(ctx.Context(), sessionID, files)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}

func (c *knowledgeController) DeleteFile(ctx *fiber.Ctx) error {
	filename := ctx.Query("filename")
	fileHash := ctx.Query("file_hash")
	sessionID := ctx.Query("session_id")

	if fileHash == "" || sessionID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "file_hash and session_id are required"))
	}

	if err := c.service.Delete(ctx.Context(), sessionID, filename, fileHash); err != nil {
		if apperrors.IsNotFound(err) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("File deleted successfully", nil))
}
