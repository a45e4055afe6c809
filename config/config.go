package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAIContextDB int    `mapstructure:"REDIS_AI_CONTEXT_DB"`
	RedisReminderDB  int    `mapstructure:"REDIS_REMINDER_DB"`

	// Gemini scheduling engine.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	// Planner defaults applied when a user has no stored settings.
	PlannerDayStartHour int  `mapstructure:"PLANNER_DAY_START_HOUR"`
	PlannerDayEndHour   int  `mapstructure:"PLANNER_DAY_END_HOUR"`
	PlannerDaysToPlan   int  `mapstructure:"PLANNER_DAYS_TO_PLAN"`
	PlannerWorkWeekOnly bool `mapstructure:"PLANNER_WORK_WEEK_ONLY"`

	// Reminder scan cron expression (robfig/cron format).
	ReminderScanSpec string `mapstructure:"REMINDER_SCAN_SPEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AI_CONTEXT_DB", 1)
	viper.SetDefault("REDIS_REMINDER_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("PLANNER_DAY_START_HOUR", 9)
	viper.SetDefault("PLANNER_DAY_END_HOUR", 18)
	viper.SetDefault("PLANNER_DAYS_TO_PLAN", 7)
	viper.SetDefault("PLANNER_WORK_WEEK_ONLY", false)
	viper.SetDefault("REMINDER_SCAN_SPEC", "@every 1m")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
