package config

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connections
type DB struct {
	SQL   *gorm.DB
	Mongo *mongo.Client
	Redis *redis.Client // nil when REDIS_ADDR is unset

	MongoDatabase string
	logger        *log.Logger
}

// InitDB opens every configured store. Redis is optional; the relational store and MongoDB are not.
func InitDB(ctx context.Context, cfg *Config, logger *log.Logger) (*DB, error) {
	sqlDB, err := OpenSQL(cfg, logger)
	if err != nil {
		return nil, err
	}

	mongoClient, err := initMongo(ctx, cfg.MongoURI, logger)
	if err != nil {
		CloseSQL(sqlDB, logger)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	db := &DB{
		SQL:           sqlDB,
		Mongo:         mongoClient,
		MongoDatabase: cfg.MongoDatabase,
		logger:        logger,
	}

	if cfg.RedisAddr != "" {
		rdb, err := InitRedis(ctx, cfg)
		if err != nil {
			db.CloseDB()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("Successfully connected to Redis!")
		db.Redis = rdb
	}

	return db, nil
}

// OpenSQL opens the relational store selected by DB_DRIVER.
func OpenSQL(cfg *Config, logger *log.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		db, err := initSQLite(cfg.SQLitePath, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		logger.Info("Successfully opened SQLite!", "path", cfg.SQLitePath)
		return db, nil
	case DriverPostgres:
		db, err := initPostgres(cfg.PostgresConnStr, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		logger.Info("Successfully connected to PostgreSQL!")
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), gormCfg)
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func initSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string, logger *log.Logger) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to MongoDB!")
	return client, nil
}

// MongoDB returns the application database handle.
func (db *DB) MongoDB() *mongo.Database {
	return db.Mongo.Database(db.MongoDatabase)
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.SQL != nil {
		CloseSQL(db.SQL, db.logger)
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.logger.Error("Error closing MongoDB connection", "err", err)
		} else {
			db.logger.Info("MongoDB connection closed.")
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			db.logger.Error("Error closing Redis connection", "err", err)
		} else {
			db.logger.Info("Redis connection closed.")
		}
	}
}

// CloseSQL closes the pool behind gdb, logging failures.
func CloseSQL(gdb *gorm.DB, logger *log.Logger) {
	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Error getting SQL DB from GORM", "err", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing SQL connection", "err", err)
		return
	}
	logger.Info("SQL connection closed.")
}
