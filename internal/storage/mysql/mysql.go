package mysql

import (
	"database/sql"
	"factory-metrics/internal/config"
	"fmt"
	"github.com/go-sql-driver/mysql"
	"time"
)

type Storage struct {
	db *sql.DB
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	dsn := mysql.Config{
		User:                 cfg.DBUser,
		Passwd:               cfg.DBPassword,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", cfg.DBHost, cfg.DBPort),
		DBName:               cfg.DBName,
		ParseTime:            cfg.ParseTime,
		Loc:                  time.UTC,
		AllowNativePasswords: true,
	}

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Storage{db: db}, nil
}

// NewWithDB для тестов и внешних пулов
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}
