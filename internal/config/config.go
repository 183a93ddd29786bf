package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Keys   APIKeys
	Speech SpeechConfig
	Ai     AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	StaticDir          string
}

type APIKeys struct {
	AssemblyAI     string
	LLM            string
	ElevenLabs     string
	GoogleAPIKey   string
	GoogleClientID string
}

type SpeechConfig struct {
	// Transcription
	Language     string
	PollInterval time.Duration
	PollTimeout  time.Duration

	// Synthesis
	VoiceID      string
	ModelID      string
	OutputFormat string
}

type AIConfig struct {
	Model      string
	SessionTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			StaticDir:          getEnv("STATIC_DIR", "./static"),
		},
		Keys: APIKeys{
			AssemblyAI:     getEnv("ASSEMBLYAI_API_KEY", ""),
			LLM:            getEnv("LLM_API_KEY", ""),
			ElevenLabs:     getEnv("ELEVENLABS_API_KEY", ""),
			GoogleAPIKey:   getEnv("GOOGLE_API_KEY", ""),
			GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		},
		Speech: SpeechConfig{
			Language:     getEnv("TRANSCRIBE_LANGUAGE", "en"),
			PollInterval: getEnvAsDuration("TRANSCRIBE_POLL_INTERVAL", 1*time.Second),
			PollTimeout:  getEnvAsDuration("TRANSCRIBE_POLL_TIMEOUT", 2*time.Minute),
			VoiceID:      getEnv("TTS_VOICE_ID", "JBFqnCBsd6RMkjVDRZzb"),
			ModelID:      getEnv("TTS_MODEL_ID", "eleven_multilingual_v2"),
			OutputFormat: getEnv("TTS_OUTPUT_FORMAT", "mp3_44100_128"),
		},
		Ai: AIConfig{
			Model:      getEnv("LLM_MODEL", "gpt-4o-mini"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 1*time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
