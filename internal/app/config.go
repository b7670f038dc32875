package app

import (
	"github.com/marwyg/annotation-tool/internal/pkg/envutil"
)

type Config struct {
	Port         string
	LogMode      string
	JWTSecretKey string
	ServiceName  string
	ResetEnabled bool
}

func LoadConfig() Config {
	return Config{
		Port:         envutil.String("PORT", "8080"),
		LogMode:      envutil.String("LOG_MODE", "development"),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		ServiceName:  envutil.String("SERVICE_NAME", "annotation-tool"),
		ResetEnabled: envutil.Bool("RESET_ENABLED", false),
	}
}
