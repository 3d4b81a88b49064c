package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Email     EmailConfig
	Grading   GradingConfig
	Grammar   GrammarConfig
	Model     ModelsConfig
	Retention RetentionConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GradingConfig locates the persisted grading configuration.
type GradingConfig struct {
	StylePath     string `mapstructure:"style_path"`
	KeywordPath   string `mapstructure:"keyword_path"`
	ProfilePath   string `mapstructure:"profile_path"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// GrammarConfig points at a LanguageTool-compatible server.
type GrammarConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	Language    string `mapstructure:"language"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ModelProviderConfig holds settings for a single essay model provider.
type ModelProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	Endpoint     string `mapstructure:"endpoint"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ModelConfig is the provider chain for one trait model.
type ModelConfig struct {
	Primary   ModelProviderConfig `mapstructure:"primary"`
	Secondary ModelProviderConfig `mapstructure:"secondary"`
	Tertiary  ModelProviderConfig `mapstructure:"tertiary"`
}

// Providers returns the configured providers in fallback order, skipping
// slots with no provider name.
func (m *ModelConfig) Providers() []*ModelProviderConfig {
	var out []*ModelProviderConfig
	for _, p := range []*ModelProviderConfig{&m.Primary, &m.Secondary, &m.Tertiary} {
		if p.Provider != "" {
			out = append(out, p)
		}
	}
	return out
}

// ModelsConfig holds one provider chain per trait.
type ModelsConfig struct {
	Score        ModelConfig `mapstructure:"score"`
	Idea         ModelConfig `mapstructure:"idea"`
	Organization ModelConfig `mapstructure:"organization"`
	Style        ModelConfig `mapstructure:"style"`
}

// RetentionConfig controls how long graded submissions are kept.
type RetentionConfig struct {
	Days              int `mapstructure:"days"`
	SweepIntervalMins int `mapstructure:"sweep_interval_mins"`
	BatchSize         int `mapstructure:"batch_size"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds admin token settings.
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	Issuer      string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Redact bool   `mapstructure:"redact"`
}

var traits = []string{"score", "idea", "organization", "style"}

var providerFields = []string{"provider", "api_key", "default_model", "endpoint", "max_retries", "timeout_secs"}

// Load reads configuration from environment variables with the IGA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("IGA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "iga")
	v.SetDefault("db.password", "iga_secret")
	v.SetDefault("db.name", "iga_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.token_expiry", "12h")
	v.SetDefault("jwt.issuer", "iga")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "iga-essays")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.redact", true)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@iga.local")
	v.SetDefault("email.from_name", "Essay Grader")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Grading defaults
	v.SetDefault("grading.style_path", "data/standard.json")
	v.SetDefault("grading.keyword_path", "data/dictionary.csv")
	v.SetDefault("grading.profile_path", "")
	v.SetDefault("grading.max_file_size_mb", 10)

	// Grammar defaults
	v.SetDefault("grammar.endpoint", "http://localhost:8010")
	v.SetDefault("grammar.language", "en-US")
	v.SetDefault("grammar.timeout_secs", 30)

	// Model defaults: every trait served by the remote model server
	for _, trait := range traits {
		prefix := "model." + trait
		v.SetDefault(prefix+".primary.provider", "remote")
		v.SetDefault(prefix+".primary.endpoint", "http://localhost:8501")
		for _, slot := range []string{"primary", "secondary", "tertiary"} {
			v.SetDefault(prefix+"."+slot+".max_retries", 2)
			v.SetDefault(prefix+"."+slot+".timeout_secs", 60)
		}
	}

	// Retention defaults
	v.SetDefault("retention.days", 7)
	v.SetDefault("retention.sweep_interval_mins", 60)
	v.SetDefault("retention.batch_size", 100)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "IGA_SERVER_PORT",
		"server.read_timeout":           "IGA_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "IGA_SERVER_WRITE_TIMEOUT",
		"server.environment":            "IGA_SERVER_ENVIRONMENT",
		"db.host":                       "IGA_DB_HOST",
		"db.port":                       "IGA_DB_PORT",
		"db.user":                       "IGA_DB_USER",
		"db.password":                   "IGA_DB_PASSWORD",
		"db.name":                       "IGA_DB_NAME",
		"db.sslmode":                    "IGA_DB_SSLMODE",
		"db.max_open":                   "IGA_DB_MAX_OPEN",
		"db.max_idle":                   "IGA_DB_MAX_IDLE",
		"jwt.secret":                    "IGA_JWT_SECRET",
		"jwt.token_expiry":              "IGA_JWT_TOKEN_EXPIRY",
		"jwt.issuer":                    "IGA_JWT_ISSUER",
		"s3.region":                     "IGA_S3_REGION",
		"s3.bucket":                     "IGA_S3_BUCKET",
		"s3.endpoint":                   "IGA_S3_ENDPOINT",
		"s3.access_key":                 "IGA_S3_ACCESS_KEY",
		"s3.secret_key":                 "IGA_S3_SECRET_KEY",
		"s3.presign_expiry":             "IGA_S3_PRESIGN_EXPIRY",
		"log.level":                     "IGA_LOG_LEVEL",
		"log.format":                    "IGA_LOG_FORMAT",
		"log.redact":                    "IGA_LOG_REDACT",
		"cors.allowed_origins":          "IGA_CORS_ALLOWED_ORIGINS",
		"email.provider":                "IGA_EMAIL_PROVIDER",
		"email.region":                  "IGA_EMAIL_REGION",
		"email.from_address":            "IGA_EMAIL_FROM_ADDRESS",
		"email.from_name":               "IGA_EMAIL_FROM_NAME",
		"email.frontend_url":            "IGA_EMAIL_FRONTEND_URL",
		"grading.style_path":            "IGA_GRADING_STYLE_PATH",
		"grading.keyword_path":          "IGA_GRADING_KEYWORD_PATH",
		"grading.profile_path":          "IGA_GRADING_PROFILE_PATH",
		"grading.max_file_size_mb":      "IGA_GRADING_MAX_FILE_SIZE_MB",
		"grammar.endpoint":              "IGA_GRAMMAR_ENDPOINT",
		"grammar.language":              "IGA_GRAMMAR_LANGUAGE",
		"grammar.timeout_secs":          "IGA_GRAMMAR_TIMEOUT_SECS",
		"retention.days":                "IGA_RETENTION_DAYS",
		"retention.sweep_interval_mins": "IGA_RETENTION_SWEEP_INTERVAL_MINS",
		"retention.batch_size":          "IGA_RETENTION_BATCH_SIZE",
	}
	for _, trait := range traits {
		for _, slot := range []string{"primary", "secondary", "tertiary"} {
			for _, field := range providerFields {
				key := strings.Join([]string{"model", trait, slot, field}, ".")
				envBindings[key] = "IGA_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
			}
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if IGA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("IGA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:      v.GetString("jwt.secret"),
		TokenExpiry: v.GetDuration("jwt.token_expiry"),
		Issuer:      v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Redact: v.GetBool("log.redact"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	cfg.Grading = GradingConfig{
		StylePath:     v.GetString("grading.style_path"),
		KeywordPath:   v.GetString("grading.keyword_path"),
		ProfilePath:   v.GetString("grading.profile_path"),
		MaxFileSizeMB: v.GetInt64("grading.max_file_size_mb"),
	}
	cfg.Grammar = GrammarConfig{
		Endpoint:    v.GetString("grammar.endpoint"),
		Language:    v.GetString("grammar.language"),
		TimeoutSecs: v.GetInt("grammar.timeout_secs"),
	}
	cfg.Model = ModelsConfig{
		Score:        loadModel(v, "score"),
		Idea:         loadModel(v, "idea"),
		Organization: loadModel(v, "organization"),
		Style:        loadModel(v, "style"),
	}
	cfg.Retention = RetentionConfig{
		Days:              v.GetInt("retention.days"),
		SweepIntervalMins: v.GetInt("retention.sweep_interval_mins"),
		BatchSize:         v.GetInt("retention.batch_size"),
	}

	return cfg, nil
}

func loadModel(v *viper.Viper, trait string) ModelConfig {
	provider := func(slot string) ModelProviderConfig {
		prefix := "model." + trait + "." + slot + "."
		return ModelProviderConfig{
			Provider:     v.GetString(prefix + "provider"),
			APIKey:       v.GetString(prefix + "api_key"),
			DefaultModel: v.GetString(prefix + "default_model"),
			Endpoint:     v.GetString(prefix + "endpoint"),
			MaxRetries:   v.GetInt(prefix + "max_retries"),
			TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
		}
	}
	return ModelConfig{
		Primary:   provider("primary"),
		Secondary: provider("secondary"),
		Tertiary:  provider("tertiary"),
	}
}
