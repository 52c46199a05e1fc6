package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gestao-mpe/gmpe/internal/logging"
	"github.com/gestao-mpe/gmpe/internal/model"
	"github.com/gestao-mpe/gmpe/internal/schema"
)

// Gateway loads and saves the book through a KV.
type Gateway struct {
	kv  KV
	log *slog.Logger
}

// NewGateway wraps kv. A nil logger discards output.
func NewGateway(kv KV, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Gateway{kv: kv, log: logger}
}

// Load returns the persisted book. The current key wins; when it is absent
// or unreadable, legacy keys are probed in order and the first one that
// migrates to a valid state is written back under the current key. When
// nothing usable is found a default book is returned. Only store failures
// are errors.
func (g *Gateway) Load(ctx context.Context) (model.State, error) {
	raw, err := g.kv.Get(ctx, schema.CurrentKey)
	switch {
	case err == nil:
		s, migrated, derr := schema.Load(raw)
		if derr == nil {
			if migrated {
				g.log.Info("normalized stored state", "key", schema.CurrentKey)
				if err := g.Save(ctx, s); err != nil {
					return model.State{}, err
				}
			}
			return s, nil
		}
		g.log.Warn("stored state is unreadable, probing legacy keys", "key", schema.CurrentKey, "error", derr)
	case errors.Is(err, ErrNotFound):
	default:
		return model.State{}, fmt.Errorf("reading %s: %w", schema.CurrentKey, err)
	}

	for _, key := range schema.LegacyKeys {
		raw, err := g.kv.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return model.State{}, fmt.Errorf("reading %s: %w", key, err)
		}

		v, err := schema.Decode(raw)
		if err != nil {
			g.log.Warn("skipping unreadable legacy state", "key", key, "error", err)
			continue
		}
		s, _ := schema.Normalize(v)
		if err := schema.Check(s); err != nil {
			g.log.Warn("legacy state did not migrate cleanly", "key", key, "error", err)
			continue
		}

		g.log.Info("migrated legacy state", "from", key, "to", schema.CurrentKey, "transactions", len(s.Tx))
		if err := g.Save(ctx, s); err != nil {
			return model.State{}, err
		}
		return s, nil
	}

	g.log.Debug("no stored state, starting fresh")
	return model.DefaultState(), nil
}

// Save writes s under the current key.
func (g *Gateway) Save(ctx context.Context, s model.State) error {
	data, err := schema.Encode(s)
	if err != nil {
		return err
	}
	if err := g.kv.Put(ctx, schema.CurrentKey, data); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}
