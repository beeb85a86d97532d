package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config agrupa la configuración del servicio.
type Config struct {
	HTTPPort string

	// DBDriver: "" (in-memory), "pgx" o "sqlite".
	DBDriver string
	DBDSN    string

	JWTSecret string

	LogLevel  string
	LogFormat string
	AppName   string

	RegistryURL    string
	RegistryAPIKey string

	NotifyWebhookURL string

	SeedDemo       bool
	SeedCatalogCSV string
}

// Load lee .env (si existe) y luego variables de entorno con defaults razonables.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:         getenv("HTTP_PORT", "8080"),
		DBDriver:         strings.ToLower(getenv("DB_DRIVER", "")),
		DBDSN:            getenv("DB_DSN", ""),
		JWTSecret:        getenv("JWT_SECRET", ""),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "text"),
		AppName:          getenv("APP_NAME", "hospital-dashboard"),
		RegistryURL:      getenv("REGISTRY_URL", ""),
		RegistryAPIKey:   getenv("REGISTRY_API_KEY", ""),
		NotifyWebhookURL: getenv("NOTIFY_WEBHOOK_URL", ""),
		SeedDemo:         getbool("SEED_DEMO", true),
		SeedCatalogCSV:   getenv("SEED_CATALOG_CSV", ""),
	}

	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", cfg.HTTPPort)
		cfg.HTTPPort = "8080"
	}

	switch cfg.DBDriver {
	case "", "pgx", "sqlite":
	case "postgres", "postgresql":
		cfg.DBDriver = "pgx"
	default:
		log.Printf("unknown DB_DRIVER %q, falling back to in-memory storage", cfg.DBDriver)
		cfg.DBDriver = ""
	}

	// Sin DSN no hay base que abrir.
	if cfg.DBDSN == "" {
		cfg.DBDriver = ""
	}

	return cfg
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
