package storebuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/eventgrove/eventgrove/internal/store"
	"github.com/eventgrove/eventgrove/internal/store/memory"
	"github.com/eventgrove/eventgrove/internal/store/postgres"
)

type Config struct {
	Type string // "memory" or "postgres"
	DSN  string
}

// New builds the configured store. The postgres variant connects and
// applies the schema so a fresh database works without manual setup.
func New(cfg Config) (store.Store, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		s, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}
