package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Aws      AwsConfig
	Rag      RagConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret      string
	TokenTTLHours  int
	BcryptCost     int
	UserCacheTTLIn int // minutes
}

type AwsConfig struct {
	Region  string
	RoleARN string
}

type RagConfig struct {
	ModelID          string
	KnowledgeBaseID  string
	Temperature      float64
	MaxTokens        int
	TopK             int
	RetrievalResults int
	SearchType       string
	TemplatesDir     string
	QueryRewrite     bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:      getEnv("JWT_SECRET", ""),
			TokenTTLHours:  getEnvAsInt("JWT_TTL_HOURS", 24),
			BcryptCost:     getEnvAsInt("BCRYPT_COST", 10),
			UserCacheTTLIn: getEnvAsInt("USER_CACHE_TTL_MINUTES", 5),
		},
		Aws: AwsConfig{
			Region:  getEnv("AWS_REGION", "us-east-1"),
			RoleARN: getEnv("AWS_ROLE_ARN", ""),
		},
		Rag: RagConfig{
			ModelID:          getEnv("BEDROCK_MODEL_ID", "anthropic.claude-instant-v1"),
			KnowledgeBaseID:  getEnv("BEDROCK_KNOWLEDGE_BASE_ID", ""),
			Temperature:      getEnvAsFloat("TEMPERATURE", 0.1),
			MaxTokens:        getEnvAsInt("MAX_TOKENS", 500),
			TopK:             getEnvAsInt("TOP_K", 10),
			RetrievalResults: getEnvAsInt("RETRIEVER_NUMBER_OF_RESULTS", 3),
			SearchType:       getEnv("RETRIEVER_SEARCH_TYPE", "HYBRID"),
			TemplatesDir:     getEnv("TEMPLATES_DIR", "templates"),
			QueryRewrite:     getEnvAsBool("ENABLE_QUERY_REWRITE", false),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
