package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente POS (lectura vía Viper desde
// env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	Auth    AuthConfig
	POS     POSConfig
	Payment PaymentConfig
	Log     LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// APIConfig configuración del backend REST remoto.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
	RetryMax       int // reintentos de transporte; 0 = los errores de red no se reintentan
}

// Timeout devuelve el deadline por petición.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AuthConfig configuración del almacén local de credenciales.
type AuthConfig struct {
	StorePath string // archivo JSON con los tres valores cafe_*
}

// POSConfig configuración del punto de venta.
type POSConfig struct {
	TaxRate    string // tasa de impuesto decimal, ej. "0.08"; "0" = sin impuesto
	ReceiptDir string // directorio donde se escriben los recibos PDF
}

// PaymentConfig configuración del listener local de retorno de pago.
type PaymentConfig struct {
	ReturnPort int
}

// LogConfig nivel de log.
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno (y opcionalmente
// desde archivo). Las env vars tienen prioridad. Nombres esperados:
// APP_ENV, API_BASE_URL, AUTH_STORE_PATH, POS_TAX_RATE, etc.
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
			Name: getString(v, "APP_NAME", "cafeteria-pos"),
		},
		API: APIConfig{
			BaseURL:        getString(v, "API_BASE_URL", "http://127.0.0.1:8000"),
			TimeoutSeconds: getInt(v, "API_TIMEOUT_SECONDS", 15),
			RetryMax:       getInt(v, "API_RETRY_MAX", 0),
		},
		Auth: AuthConfig{
			StorePath: getString(v, "AUTH_STORE_PATH", defaultStorePath()),
		},
		POS: POSConfig{
			TaxRate:    getString(v, "POS_TAX_RATE", "0"),
			ReceiptDir: getString(v, "POS_RECEIPT_DIR", "."),
		},
		Payment: PaymentConfig{
			ReturnPort: getInt(v, "PAYMENT_RETURN_PORT", 8787),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// defaultStorePath credenciales bajo el home del usuario; cae al directorio
// actual si el home no es resoluble.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "credentials.json"
	}
	return filepath.Join(home, ".cafeteria-pos", "credentials.json")
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
