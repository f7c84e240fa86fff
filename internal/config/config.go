package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // question asset uploads

	AuthHMACSecret string

	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		AuthHMACSecret:     envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:          envOr("ADMIN_USER", "admin"),
		AdminPassHash:      envOr("ADMIN_PASS_HASH", ""),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://app.paperdrill.io"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
