package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	InferenceURL string
	DBPath       string

	// Архитектурные параметры по умолчанию (метры);
	// переопределяются per-request параметрами формы.
	WallHeight       float64
	WallThickness    float64
	DoorHeight       float64
	WindowHeight     float64
	WindowSillHeight float64
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		InferenceURL: getEnv("INFERENCE_URL", "http://localhost:5000"),
		DBPath:       getEnv("GENERATOR_DB_PATH", "data/db/generations.db"),

		WallHeight:       getEnvAsFloat("WALL_HEIGHT", 3.0),
		WallThickness:    getEnvAsFloat("WALL_THICKNESS", 0.15),
		DoorHeight:       getEnvAsFloat("DOOR_HEIGHT", 2.1),
		WindowHeight:     getEnvAsFloat("WINDOW_HEIGHT", 1.2),
		WindowSillHeight: getEnvAsFloat("WINDOW_SILL_HEIGHT", 0.9),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
