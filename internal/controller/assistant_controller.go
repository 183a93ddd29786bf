package controller

import (
	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/pkg/serverutils"
	"voice-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Answer(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
}

func NewAssistantController(service service.IAssistantService) IAssistantController {
	return &assistantController{service: service}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	r.Post("/llm", c.Answer)
}

func (c *assistantController) Answer(ctx *fiber.Ctx) error {
	var req dto.LLMRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	response := c.service.Answer(ctx.Context(), req.SessionID, req.Message)
	return ctx.JSON(dto.LLMResponse{Response: response})
}
