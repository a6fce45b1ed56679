package gormstore

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

// Open abre la conexión gorm según cfg.Driver (sqlite o gorm-postgres).
// En SQLite se activan las llaves foráneas y se limita el pool a una conexión.
func Open(cfg config.DBConfig, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.SQLitePath))
	case config.DriverGormPostgres:
		dialector = postgres.Open(cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("gormstore: driver %q no soportado", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// AutoMigrate crea o ajusta las tablas categories y products.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&categoryRecord{}, &productRecord{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close libera la conexión subyacente.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(path string) string {
	if path == "" {
		path = "catalogo.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// zerologWriter adapta el logger de la app a la interfaz Printf que espera gorm.
type zerologWriter struct {
	log *logger.Logger
}

func (w zerologWriter) Printf(format string, args ...any) {
	w.log.Warn().Msgf(format, args...)
}

func newGormLogger(log *logger.Logger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(zerologWriter{log: log.Named("gorm")}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
