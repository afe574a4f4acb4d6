package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config — настройки приложения из окружения.
type Config struct {
	TelegramToken string
	HTTPAddr      string
	DBPath        string
	ReportsDir    string

	// Внешние модели; пустой URL означает, что модель не используется.
	GatekeeperURL  string
	ClassifierURL  string
	ModelInputSize int

	// Конвейер признаков
	ScoringMode string
	UseGoCV     bool
	MaxSide     int
	BlurKernel  int
	UseCLAHE    bool
	MinArea     float64

	// Стратегии оценки
	MaxDefectFraction float64
	ImpactMultiplier  float64
	HealthFloor       float64
	HealthCeiling     float64

	// Политика решений
	UncertainLow  float64
	UncertainHigh float64
	PassHealth    float64
	MaxDefects    int

	// Подпись записей журнала
	Inspector string
	Batch     string
}

// Load читает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:      envString("HTTP_ADDR", ":8080"),
		DBPath:        envString("DB_PATH", "inspections.db"),
		ReportsDir:    envString("REPORTS_DIR", "reports"),

		GatekeeperURL:  os.Getenv("GATEKEEPER_URL"),
		ClassifierURL:  os.Getenv("CLASSIFIER_URL"),
		ModelInputSize: envInt("MODEL_INPUT_SIZE", 224),

		ScoringMode: envString("SCORING_MODE", "geometric"),
		UseGoCV:     envBool("USE_GOCV", false),
		MaxSide:     envInt("MAX_SIDE", 1024),
		BlurKernel:  envInt("BLUR_KERNEL", 5),
		UseCLAHE:    envBool("USE_CLAHE", false),
		MinArea:     envFloat("MIN_AREA", 10),

		MaxDefectFraction: envFloat("MAX_DEFECT_FRACTION", 0.1),
		ImpactMultiplier:  envFloat("IMPACT_MULTIPLIER", 1.5),
		HealthFloor:       envFloat("HEALTH_FLOOR", 10),
		HealthCeiling:     envFloat("HEALTH_CEILING", 99),

		UncertainLow:  envFloat("UNCERTAIN_LOW", 0.45),
		UncertainHigh: envFloat("UNCERTAIN_HIGH", 0.55),
		PassHealth:    envFloat("PASS_HEALTH", 90),
		MaxDefects:    envInt("MAX_DEFECTS", 5),

		Inspector: envString("INSPECTOR", "AI System"),
		Batch:     envString("BATCH_ID", "BATCH-001"),
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
