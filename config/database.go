package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"social-chat-api/config/common"
	"social-chat-api/config/logger"
	"social-chat-api/entity"
)

// NamingStrategy gives every table a t_ prefix and a singular name, e.g. t_user.
var NamingStrategy = schema.NamingStrategy{
	TablePrefix:   "t_",
	SingularTable: true,
}

type DBConfig struct {
	*gorm.DB
	*logger.AppLogger
}

func NewDB(config *common.Config, log *logger.AppLogger) *DBConfig {
	db := initDatabase(config, log)
	return &DBConfig{DB: db, AppLogger: log}
}

func (db *DBConfig) GetDB() *gorm.DB {
	return db.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(entity.Models()...)
}

func initDatabase(cfg *common.Config, log *logger.AppLogger) *gorm.DB {
	dbHost, dbUser, dbPassword, dbName, dbPort := cfg.GetDatabaseConfig()
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbHost, dbUser, dbPassword, dbName, dbPort,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NamingStrategy: NamingStrategy,
		TranslateError: true,
	})
	if err != nil {
		log.Http.Error.Fatal().Err(err).Msg("failed to connect to database")
	}

	conn, err := db.DB()
	if err != nil {
		log.Http.Error.Fatal().Err(err).Msg("failed to get database handle")
	}
	log.Http.Info.Info().Str("host", dbHost).Str("db", dbName).Msg("connection opened to database")

	if err := Migrate(db); err != nil {
		log.Http.Error.Fatal().Err(err).Msg("failed to run migration")
	}

	conn.SetMaxIdleConns(10)
	conn.SetMaxOpenConns(100)
	conn.SetConnMaxLifetime(300 * time.Second)
	return db
}
