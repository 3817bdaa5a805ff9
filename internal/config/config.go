package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv    string
	DataDir   string
	ExportDir string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    os.Getenv("APP_ENV"),
		DataDir:   os.Getenv("DATA_DIR"),
		ExportDir: os.Getenv("EXPORT_DIR"),
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = filepath.Join(cfg.DataDir, "exports")
	}

	return cfg
}
