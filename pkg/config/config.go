package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	Dynamo    DynamoConfig
	AWS       AWSConfig
	Storage   StorageConfig
	Redis     RedisConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Scheduler SchedulerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env            string // development, staging, production
	Name           string
	LogLevel       string
	StoreDriver    string // postgres | dynamodb | memory
	MetricsEnabled bool
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// DynamoConfig tablas del backend documental. Cada entidad vive en <TablePrefix><colección>.
type DynamoConfig struct {
	TablePrefix string
	Endpoint    string // vacío = endpoint regional de AWS; ej. http://localhost:8000 para DynamoDB Local
}

// AWSConfig credenciales y región compartidas por DynamoDB y S3.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// StorageConfig almacenamiento de los PDF de facturas.
type StorageConfig struct {
	Driver        string // s3 | local
	Bucket        string
	Endpoint      string
	PublicBaseURL string
	LocalDir      string
}

// RedisConfig conexión a Redis (claves de idempotencia). URL vacía desactiva el middleware.
type RedisConfig struct {
	URL       string
	KeyPrefix string
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// SchedulerConfig tareas periódicas.
type SchedulerConfig struct {
	OverdueCron string // expresión cron; vacío desactiva el barrido de facturas vencidas
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, STORE_DRIVER, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:            getString(v, "APP_ENV", "development"),
			Name:           getString(v, "APP_NAME", "taller-api"),
			LogLevel:       getString(v, "LOG_LEVEL", "info"),
			StoreDriver:    strings.ToLower(getString(v, "STORE_DRIVER", "postgres")),
			MetricsEnabled: getBool(v, "METRICS_ENABLED", true),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "taller"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
		},
		Dynamo: DynamoConfig{
			TablePrefix: getString(v, "DYNAMODB_TABLE_PREFIX", "taller_"),
			Endpoint:    getString(v, "DYNAMODB_ENDPOINT", ""),
		},
		AWS: AWSConfig{
			Region:          getString(v, "AWS_REGION", "us-east-1"),
			AccessKeyID:     getString(v, "AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getString(v, "AWS_SECRET_ACCESS_KEY", ""),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getString(v, "STORAGE_DRIVER", "local")),
			Bucket:        getString(v, "S3_BUCKET", ""),
			Endpoint:      getString(v, "S3_ENDPOINT", ""),
			PublicBaseURL: getString(v, "S3_PUBLIC_BASE_URL", ""),
			LocalDir:      getString(v, "LOCAL_STORAGE_DIR", "./storage"),
		},
		Redis: RedisConfig{
			URL:       getString(v, "REDIS_URL", ""),
			KeyPrefix: getString(v, "REDIS_KEY_PREFIX", "taller"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "taller-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Scheduler: SchedulerConfig{
			OverdueCron: getString(v, "OVERDUE_CRON", "0 * * * *"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.StoreDriver {
	case "postgres", "dynamodb", "memory":
	default:
		return fmt.Errorf("config: STORE_DRIVER inválido %q (postgres|dynamodb|memory)", c.App.StoreDriver)
	}
	if c.JWT.Secret == "" && c.App.Env == "production" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio en production")
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("config: S3_BUCKET es obligatorio con STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("config: STORAGE_DRIVER inválido %q (s3|local)", c.Storage.Driver)
	}
	return nil
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
