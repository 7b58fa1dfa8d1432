package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del gateway (lectura vía Viper desde env y
// opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	API     APIConfig
	Session SessionConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP del gateway.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig configuración del backend REST de GesTrack.
type APIConfig struct {
	BaseURL string // ej. http://localhost:5000/api
	Timeout time.Duration
}

// SessionConfig configuración del almacén de sesiones.
// Backend: "memory" (solo proceso), "file" (JSON persistente) o "redis".
type SessionConfig struct {
	Backend    string
	FilePath   string // backend=file: ruta del archivo JSON
	RedisAddr  string // backend=redis: host:port
	RedisDB    int
	TTL        time.Duration // vida de la sesión en redis; 0 = sin expiración
	CookieName string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde
// archivo .env / config.env). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "gestrack-web"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		API: APIConfig{
			BaseURL: getString(v, "API_BASE_URL", "http://localhost:5000/api"),
			Timeout: time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Session: SessionConfig{
			Backend:    getString(v, "SESSION_BACKEND", "file"),
			FilePath:   getString(v, "SESSION_FILE_PATH", "./sessions.json"),
			RedisAddr:  getString(v, "SESSION_REDIS_ADDR", "localhost:6379"),
			RedisDB:    getInt(v, "SESSION_REDIS_DB", 0),
			TTL:        time.Duration(getInt(v, "SESSION_TTL_MINUTES", 0)) * time.Minute,
			CookieName: getString(v, "SESSION_COOKIE_NAME", "gestrack_sid"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
