package common

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/viper"
)

type Config struct {
	Viper *viper.Viper
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewViper() *Config {
	config := viper.New()
	config.SetConfigFile(".env")
	config.AddConfigPath("../")
	config.AutomaticEnv()
	setDefaults(config)

	log.Trace("Checking file .env ....")
	if err := config.ReadInConfig(); err != nil {
		log.Warnf("failed read .env, falling back to environment: %v", err)
	}
	return &Config{Viper: config}
}

// NewConfig wraps an already populated viper instance. Used by tests.
func NewConfig(v *viper.Viper) *Config {
	setDefaults(v)
	return &Config{Viper: v}
}

func setDefaults(config *viper.Viper) {
	config.SetDefault("APP_NAME", "social-chat-api")
	config.SetDefault("APP_PORT", "7720")
	config.SetDefault("CORS_ORIGINS", "http://localhost:8080")
	config.SetDefault("DB_PORT", "5432")
	config.SetDefault("JWT_TTL", "168h")
	config.SetDefault("REDIS_ADDR", "localhost:6379")
	config.SetDefault("REDIS_DB", 2)
	config.SetDefault("MAIL_PORT", 587)
	config.SetDefault("CAPTCHA_TTL", "300s")
	config.SetDefault("CAPTCHA_SINGLE_USE", false)
	config.SetDefault("FRIEND_REQUIRE_PENDING", false)
	config.SetDefault("LOG_LEVEL", "info")
	config.SetDefault("LOG_DIR", "logs")
}

func (c *Config) GetAppConfig() (appName string) {
	return c.Viper.GetString("APP_NAME")
}

func (c *Config) GetLogConfig() (level string, dir string) {
	return c.Viper.GetString("LOG_LEVEL"), c.Viper.GetString("LOG_DIR")
}

func (c *Config) GetServerConfig() (port string, corsOrigins string) {
	return c.Viper.GetString("APP_PORT"), strings.TrimSpace(c.Viper.GetString("CORS_ORIGINS"))
}

func (c *Config) GetDatabaseConfig() (dbHost, dbUser, dbPassword, dbName, dbPort string) {
	dbHost = c.Viper.GetString("DB_HOSTNAME")
	dbUser = c.Viper.GetString("DB_USER")
	dbPassword = c.Viper.GetString("DB_PASSWORD")
	dbName = c.Viper.GetString("DB_NAME")
	dbPort = c.Viper.GetString("DB_PORT")

	return dbHost, dbUser, dbPassword, dbName, dbPort
}

func (c *Config) GetJwtConfig() []byte {
	jwtSecret := c.Viper.GetString("JWT_SECRET")
	return []byte(jwtSecret)
}

func (c *Config) GetJwtTTL() time.Duration {
	return c.Viper.GetDuration("JWT_TTL")
}

func (c *Config) GetRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     c.Viper.GetString("REDIS_ADDR"),
		Password: c.Viper.GetString("REDIS_PASSWORD"),
		DB:       c.Viper.GetInt("REDIS_DB"),
	}
}

func (c *Config) GetMailConfig() MailConfig {
	return MailConfig{
		Host:     c.Viper.GetString("MAIL_HOST"),
		Port:     c.Viper.GetInt("MAIL_PORT"),
		User:     c.Viper.GetString("MAIL_USER"),
		Password: c.Viper.GetString("MAIL_PASSWORD"),
		From:     c.Viper.GetString("MAIL_FROM"),
	}
}

func (c *Config) GetCaptchaConfig() (ttl time.Duration, singleUse bool) {
	return c.Viper.GetDuration("CAPTCHA_TTL"), c.Viper.GetBool("CAPTCHA_SINGLE_USE")
}

// GetFriendshipConfig reports whether agree and reject need a matching pending request.
func (c *Config) GetFriendshipConfig() (requirePending bool) {
	return c.Viper.GetBool("FRIEND_REQUIRE_PENDING")
}
