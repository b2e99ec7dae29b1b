package repository

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/aymenbt/minishop/internal/config"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	_ "github.com/lib/pq"
)

// Repository bundles the database handle and the per-aggregate repositories.
type Repository struct {
	DB      *sql.DB
	User    UserRepository
	Product ProductRepository
	Cart    CartRepository
	Order   OrderRepository
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Repository{
		DB:      db,
		User:    NewUserRepo(db),
		Product: NewProductRepo(db),
		Cart:    NewCartRepo(db),
		Order:   NewOrderRepo(db),
	}, nil
}

func (r *Repository) Close() error {
	return r.DB.Close()
}
