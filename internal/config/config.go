package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DBDriver      string
	DBDSN         string
	ServerPort    string
	SessionSecret string
	BcryptCost    int
	Debug         bool
	TemplateGlob  string
	StaticDir     string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:      os.Getenv("DB_DRIVER"),
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		BcryptCost:    bcrypt.DefaultCost,
		Debug:         os.Getenv("DEBUG") == "true",
		TemplateGlob:  os.Getenv("TEMPLATE_GLOB"),
		StaticDir:     os.Getenv("STATIC_DIR"),
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = "postgres"
	}
	if cfg.DBDriver == "postgres" && cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.DBDriver == "sqlite" && cfg.DBDSN == "" {
		cfg.DBDSN = "roleadmin.db"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			log.Fatalf("invalid BCRYPT_COST: %s", v)
		}
		cfg.BcryptCost = cost
	}
	if cfg.TemplateGlob == "" {
		cfg.TemplateGlob = "web/templates/*.html"
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "./web/static"
	}

	return cfg
}
