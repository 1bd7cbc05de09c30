// Package config carga la configuración de la aplicación (Viper: env y
// opcionalmente archivo). El resultado es un value object que se inyecta a los
// componentes en construcción; no hay estado de configuración global.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación.
type Config struct {
	App       AppConfig
	DB        DBConfig
	HTTP      HTTPConfig
	SimpleAPI SimpleAPIConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido,
// si no el construido con los campos individuales.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// SimpleAPIConfig configuración de la integración con SimpleAPI (BHE del SII).
type SimpleAPIConfig struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration // tope de red por llamada
	EsperaCorreo time.Duration // espera antes de solicitar el envío por correo
}

// Defaults de SimpleAPI; se usan cuando las variables de entorno no están definidas.
const (
	defaultSimpleAPIKey     = "4648-N330-6392-2590-9354"
	defaultSimpleAPIBaseURL = "https://servicios.simpleapi.cl/api"
	defaultSimpleAPITimeout = 30 // segundos
	defaultEsperaCorreo     = 1  // segundos
)

// Load lee la configuración desde variables de entorno (y opcionalmente un
// archivo .env en el directorio de trabajo). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // el archivo es opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "boletas-api"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "boletas"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		SimpleAPI: SimpleAPIConfig{
			APIKey:       getString(v, "SIMPLEAPI_API_KEY", defaultSimpleAPIKey),
			BaseURL:      getString(v, "SIMPLEAPI_BASE_URL", defaultSimpleAPIBaseURL),
			Timeout:      time.Duration(getInt(v, "SIMPLEAPI_TIMEOUT", defaultSimpleAPITimeout)) * time.Second,
			EsperaCorreo: time.Duration(getInt(v, "SIMPLEAPI_MAIL_DELAY", defaultEsperaCorreo)) * time.Second,
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
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
