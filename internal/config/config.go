package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by HIPPO_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("HIPPO_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// WorkspaceDir returns the agent workspace root. The memory directory lives
// under it.
func WorkspaceDir() string {
	dir := os.Getenv("WORKSPACE_DIR")
	if dir == "" {
		return "./workspace"
	}
	return dir
}

// APIKey returns the bearer key protecting the /v1 routes. Empty disables
// auth, which is only sensible for local development.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RecallProvider returns the configured recall provider.
// Valid values: none, cloud, vector. Defaults to "none".
func RecallProvider() string {
	p := os.Getenv("RECALL_PROVIDER")
	if p == "" {
		return "none"
	}
	return p
}

func RecallAPIURL() string {
	return os.Getenv("RECALL_API_URL")
}

func RecallAPIKey() string {
	return os.Getenv("RECALL_API_KEY")
}

// RecallContainerTag scopes documents in the hosted recall service.
func RecallContainerTag() string {
	tag := os.Getenv("RECALL_CONTAINER_TAG")
	if tag == "" {
		return "hippo"
	}
	return tag
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// LLMProvider returns the configured LLM provider for consolidation.
// Defaults to "mock" so a bare deployment never calls out.
// Valid values: openai, anthropic, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "mock"
	}
	return p
}

// EmbeddingProvider returns the configured embedding provider.
// Defaults to "openai" if not set.
// Valid values: openai, mock
func EmbeddingProvider() string {
	p := os.Getenv("EMBEDDING_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// EmbeddingAPIKey returns the API key for the configured embedding provider.
func EmbeddingAPIKey() string {
	switch EmbeddingProvider() {
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// ConsolidationInterval returns how often the background consolidator runs.
// Defaults to 6 hours.
func ConsolidationInterval() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("CONSOLIDATION_INTERVAL_HOURS"))
	if err != nil || hours <= 0 {
		return 6 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// ConsolidationMinAge returns how old an event must be before it is eligible
// for consolidation. Defaults to 72 hours.
func ConsolidationMinAge() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("CONSOLIDATION_MIN_AGE_HOURS"))
	if err != nil || hours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// ConsolidationMinEvents returns the minimum batch size for a consolidation
// run. Defaults to 5.
func ConsolidationMinEvents() int {
	n, err := strconv.Atoi(os.Getenv("CONSOLIDATION_MIN_EVENTS"))
	if err != nil || n <= 0 {
		return 5
	}
	return n
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
