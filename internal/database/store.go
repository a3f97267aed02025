package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/pinet/pinet/internal/config"
	"github.com/pinet/pinet/internal/logger"
	"github.com/pinet/pinet/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Store persists pins and accounts for the HTTP handlers.
type Store interface {
	// ListPins returns every pin in insertion order.
	ListPins(ctx context.Context) ([]models.Pin, error)
	// CreatePin stores p and fills in its ID and timestamps.
	CreatePin(ctx context.Context, p *models.Pin) error
	// CreateUser stores u and fills in its ID and timestamps. A taken username
	// or email yields ErrDuplicate.
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects the store selected by cfg.StoreDriver and prepares its
// indexes or tables.
func Open(ctx context.Context, cfg config.Config, log *logger.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, err := Connect(ctx, cfg.StoreURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.DBName)
		log.Info("MongoDB connected", "db", db.Name())
		if err := EnsurePinIndexes(ctx, db, log); err != nil {
			log.Warn("pin index warning", "error", err)
		}
		if err := EnsureUserIndexes(ctx, db, log); err != nil {
			log.Warn("user index warning", "error", err)
		}
		return NewMongoStore(db), nil
	case "sqlite":
		return OpenSQL("sqlite", config.SQLiteDSN(cfg.StoreURI), log)
	case "postgres":
		return OpenSQL("postgres", cfg.StoreURI, log)
	}
	return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
}
