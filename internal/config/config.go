package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string `toml:"listen_addr"`
	Env         string `toml:"env"`
	CORSOrigins string `toml:"cors_origins"`

	DBDriver string `toml:"db_driver"`
	DBDSN    string `toml:"db_dsn"`
	DBPath   string `toml:"db_path"`

	AuthProvider    string        `toml:"auth_provider"`
	JWTSecret       string        `toml:"jwt_secret"`
	JWTTTL          time.Duration `toml:"jwt_ttl"`
	SupabaseURL     string        `toml:"supabase_url"`
	SupabaseAnonKey string        `toml:"supabase_anon_key"`

	PDFServiceURL     string        `toml:"pdf_service_url"`
	PDFServiceTimeout time.Duration `toml:"pdf_service_timeout"`

	PhotoBackend string `toml:"photo_backend"`
	PhotoPath    string `toml:"photo_local_path"`
	S3Bucket     string `toml:"s3_bucket"`
	S3Region     string `toml:"s3_region"`
	S3Endpoint   string `toml:"s3_endpoint"`
	S3AccessKey  string `toml:"s3_access_key"`
	S3SecretKey  string `toml:"s3_secret_key"`
	S3Prefix     string `toml:"s3_prefix"`

	CEPServiceURL string `toml:"cep_service_url"`

	ClaudeAPIKey string `toml:"claude_api_key"`
	ClaudeModel  string `toml:"claude_model"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// devJWTSecret is only accepted outside production.
const devJWTSecret = "geohome-dev-secret"

func defaults() *Config {
	return &Config{
		ListenAddr:        ":8080",
		Env:               "development",
		CORSOrigins:       "*",
		DBDriver:          "sqlite",
		DBPath:            "/data/geohome.db",
		AuthProvider:      "local",
		JWTSecret:         devJWTSecret,
		JWTTTL:            24 * time.Hour,
		PDFServiceURL:     "http://localhost:8000",
		PDFServiceTimeout: 30 * time.Second,
		PhotoBackend:      "local",
		PhotoPath:         "/data/uploads",
		S3Region:          "us-east-1",
		S3Prefix:          "uploads/",
		CEPServiceURL:     "https://viacep.com.br",
		ClaudeModel:       "claude-opus-4-6",
		LogLevel:          "info",
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (or $GEOHOME_CONFIG), then a .env file in the working directory, then the
// process environment. Later layers win.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("GEOHOME_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// A missing .env is normal; godotenv never overrides variables that are
	// already set.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.ListenAddr = getEnv("LISTEN_ADDR", c.ListenAddr)
	c.Env = getEnv("ENV", c.Env)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBDSN = getEnv("DB_DSN", c.DBDSN)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.AuthProvider = getEnv("AUTH_PROVIDER", c.AuthProvider)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.SupabaseURL = getEnv("SUPABASE_URL", c.SupabaseURL)
	c.SupabaseAnonKey = getEnv("SUPABASE_ANON_KEY", c.SupabaseAnonKey)
	c.PDFServiceURL = getEnv("PDF_SERVICE_URL", c.PDFServiceURL)
	c.PhotoBackend = getEnv("PHOTO_BACKEND", c.PhotoBackend)
	c.PhotoPath = getEnv("PHOTO_LOCAL_PATH", c.PhotoPath)
	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Region = getEnv("S3_REGION", c.S3Region)
	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.S3AccessKey = getEnv("S3_ACCESS_KEY", c.S3AccessKey)
	c.S3SecretKey = getEnv("S3_SECRET_KEY", c.S3SecretKey)
	c.S3Prefix = getEnv("S3_PREFIX", c.S3Prefix)
	c.CEPServiceURL = getEnv("CEP_SERVICE_URL", c.CEPServiceURL)
	c.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", c.ClaudeAPIKey)
	c.ClaudeModel = getEnv("CLAUDE_MODEL", c.ClaudeModel)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)

	var err error
	if c.JWTTTL, err = getDuration("JWT_TTL", c.JWTTTL); err != nil {
		return err
	}
	if c.PDFServiceTimeout, err = getDuration("PDF_SERVICE_TIMEOUT", c.PDFServiceTimeout); err != nil {
		return err
	}
	return nil
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" && c.DBDSN == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	case "postgres":
		if c.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}

	switch c.AuthProvider {
	case "local":
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required for local auth"))
		} else if c.IsProduction() && c.JWTSecret == devJWTSecret {
			errs = append(errs, errors.New("JWT_SECRET must be set in production"))
		}
		if c.JWTTTL <= 0 {
			errs = append(errs, errors.New("JWT_TTL must be positive"))
		}
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for supabase auth"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider))
	}

	switch c.PhotoBackend {
	case "local":
		if c.PhotoPath == "" {
			errs = append(errs, errors.New("PHOTO_LOCAL_PATH is required for local photos"))
		}
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for s3 photos"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PHOTO_BACKEND %q", c.PhotoBackend))
	}

	if c.PDFServiceTimeout <= 0 {
		errs = append(errs, errors.New("PDF_SERVICE_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DSN returns the data source for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" && c.DBDSN == "" {
		return c.DBPath
	}
	return c.DBDSN
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return d, nil
}
