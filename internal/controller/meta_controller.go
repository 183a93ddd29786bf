package controller

import (
	"voice-ai-be/internal/config"
	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IMetaController serves client bootstrap config and vendor status probes.
type IMetaController interface {
	RegisterRoutes(r fiber.Router)
	GetConfig(ctx *fiber.Ctx) error
	AssemblyStatus(ctx *fiber.Ctx) error
	LLMStatus(ctx *fiber.Ctx) error
}

type metaController struct {
	cfg           *config.Config
	transcription service.ITranscriptionService
	assistant     service.IAssistantService
}

func NewMetaController(cfg *config.Config, transcription service.ITranscriptionService, assistant service.IAssistantService) IMetaController {
	return &metaController{
		cfg:           cfg,
		transcription: transcription,
		assistant:     assistant,
	}
}

func (c *metaController) RegisterRoutes(r fiber.Router) {
	r.Get("/config", c.GetConfig)
	r.Get("/status/assembly", c.AssemblyStatus)
	r.Get("/status/llm", c.LLMStatus)
}

func (c *metaController) GetConfig(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.ConfigResponse{
		GoogleAPIKey:   c.cfg.Keys.GoogleAPIKey,
		GoogleClientID: c.cfg.Keys.GoogleClientID,
	})
}

func (c *metaController) AssemblyStatus(ctx *fiber.Ctx) error {
	if err := c.transcription.Status(ctx.Context()); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(dto.StatusResponse{Status: "down", Detail: err.Error()})
	}
	return ctx.JSON(dto.StatusResponse{Status: "ok"})
}

func (c *metaController) LLMStatus(ctx *fiber.Ctx) error {
	if err := c.assistant.Status(ctx.Context()); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(dto.StatusResponse{Status: "down", Detail: err.Error()})
	}
	return ctx.JSON(dto.StatusResponse{Status: "ok"})
}
