package controller

import (
	"encoding/base64"

	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/pkg/serverutils"
	"voice-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISpeechController interface {
	RegisterRoutes(r fiber.Router)
	Transcribe(ctx *fiber.Ctx) error
	TextToSpeech(ctx *fiber.Ctx) error
	TextToSpeechStream(ctx *fiber.Ctx) error
}

type speechController struct {
	transcription service.ITranscriptionService
	speech        service.ISpeechService
}

func NewSpeechController(transcription service.ITranscriptionService, speech service.ISpeechService) ISpeechController {
	return &speechController{
		transcription: transcription,
		speech:        speech,
	}
}

func (c *speechController) RegisterRoutes(r fiber.Router) {
	r.Post("/transcribe", c.Transcribe)
	r.Post("/tts", c.TextToSpeech)
	r.Post("/tts/stream", c.TextToSpeechStream)
}

func (c *speechController) Transcribe(ctx *fiber.Ctx) error {
	var req dto.TranscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	audio, err := base64.StdEncoding.DecodeString(req.AudioData)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid base64 audio data"))
	}

	text, err := c.transcription.Transcribe(ctx.Context(), audio)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(dto.TranscriptionResponse{Text: text})
}

func (c *speechController) TextToSpeech(ctx *fiber.Ctx) error {
	var req dto.TTSRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	audio, err := c.speech.Synthesize(ctx.Context(), req.Text)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(dto.TTSResponse{AudioData: base64.StdEncoding.EncodeToString(audio)})
}

func (c *speechController) TextToSpeechStream(ctx *fiber.Ctx) error {
	var req dto.TTSRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	stream, err := c.speech.SynthesizeStream(ctx.Context(), req.Text)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	ctx.Set(fiber.HeaderContentType, "audio/mpeg")
	ctx.Set(fiber.HeaderContentDisposition, "attachment; filename=speech.mp3")
	return ctx.SendStream(stream)
}
