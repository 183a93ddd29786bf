package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/pkg/logger"
)

// EmitFunc delivers one event to the connected client. It returns an error
// when the connection is no longer writable.
type EmitFunc func(event dto.WSEvent) error

type IConversationService interface {
	// HandleMessage runs one conversational turn. Every stage's output is
	// emitted as soon as it is available. Failures are reported as error
	// events; they never terminate the connection.
	HandleMessage(ctx context.Context, raw []byte, emit EmitFunc)
}

type conversationService struct {
	transcription ITranscriptionService
	assistant     IAssistantService
	speech        ISpeechService
	logger        logger.ILogger
}

func NewConversationService(
	transcription ITranscriptionService,
	assistant IAssistantService,
	speech ISpeechService,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		transcription: transcription,
		assistant:     assistant,
		speech:        speech,
		logger:        log,
	}
}

func (s *conversationService) HandleMessage(ctx context.Context, raw []byte, emit EmitFunc) {
	var msg dto.WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.emitError(emit, fmt.Sprintf("Invalid message: %s", err.Error()))
		return
	}

	switch msg.Type {
	case dto.WSTypeAudio:
		s.audioTurn(ctx, &msg, emit)
	case dto.WSTypeText:
		s.textTurn(ctx, &msg, emit)
	default:
		s.emitError(emit, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// audioTurn: transcribe -> answer -> synthesize, each stage emitted on arrival.
func (s *conversationService) audioTurn(ctx context.Context, msg *dto.WSMessage, emit EmitFunc) {
	audio, err := base64.StdEncoding.DecodeString(msg.AudioData)
	if err != nil {
		s.emitError(emit, fmt.Sprintf("Invalid audio data: %s", err.Error()))
		return
	}

	transcript, err := s.transcription.Transcribe(ctx, audio)
	if err != nil {
		s.emitError(emit, err.Error())
		return
	}
	if err := emit(dto.WSEvent{Type: dto.WSEventTranscription, Text: transcript}); err != nil {
		return
	}

	s.respond(ctx, msg.SessionID, transcript, emit)
}

func (s *conversationService) textTurn(ctx context.Context, msg *dto.WSMessage, emit EmitFunc) {
	s.respond(ctx, msg.SessionID, msg.Message, emit)
}

func (s *conversationService) respond(ctx context.Context, sessionID, userInput string, emit EmitFunc) {
	answer := s.assistant.Answer(ctx, sessionID, userInput)
	if err := emit(dto.WSEvent{Type: dto.WSEventLLMResponse, Text: answer}); err != nil {
		return
	}

	audio, err := s.speech.Synthesize(ctx, answer)
	if err != nil {
		s.emitError(emit, err.Error())
		return
	}
	emit(dto.WSEvent{
		Type:      dto.WSEventTTS,
		AudioData: base64.StdEncoding.EncodeToString(audio),
	})
}

func (s *conversationService) emitError(emit EmitFunc, detail string) {
	s.logger.Warn("ConversationService", "Turn failed", map[string]interface{}{"error": detail})
	emit(dto.WSEvent{Type: dto.WSEventError, Error: detail})
}
