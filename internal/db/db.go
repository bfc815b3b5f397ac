package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"expensetracker/internal/config"
	"expensetracker/internal/model"
)

// Options tune the connection pool and logging.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	Logger       *logrus.Logger
}

// Open connects using the driver named in cfg.
func Open(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	opts := Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Logger:       log,
	}
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return NewSQLite(cfg.DatabaseDSN, opts)
	default:
		return NewMySQL(cfg.DatabaseDSN, opts)
	}
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig(opts.Logger))
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql pool: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// NewSQLite opens an embedded database. The pool is pinned to a single
// connection: sqlite serializes writers anyway, and ":memory:" databases
// live only as long as their connection.
func NewSQLite(dsn string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(opts.Logger))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

// Migrate creates or updates the schema. With reset set, tables are dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	tables := []interface{}{
		&model.User{},
		&model.Expense{},
	}

	if reset {
		if err := db.Migrator().DropTable(tables...); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}

	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormConfig(log *logrus.Logger) *gorm.Config {
	cfg := &gorm.Config{
		TranslateError: true,
	}
	if log == nil {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
		return cfg
	}
	// Parameterized queries keep password hashes out of slow-query logs.
	cfg.Logger = logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
	return cfg
}
