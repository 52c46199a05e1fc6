package books

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestao-mpe/gmpe/internal/backup"
	"github.com/gestao-mpe/gmpe/internal/csvio"
	"github.com/gestao-mpe/gmpe/internal/id"
	"github.com/gestao-mpe/gmpe/internal/importer"
	"github.com/gestao-mpe/gmpe/internal/ledger"
	"github.com/gestao-mpe/gmpe/internal/logging"
	"github.com/gestao-mpe/gmpe/internal/model"
	"github.com/gestao-mpe/gmpe/internal/schema"
)

// Store persists the book.
type Store interface {
	Load(ctx context.Context) (model.State, error)
	Save(ctx context.Context, s model.State) error
}

// Service owns the current state. Each mutation runs a command on a copy,
// validates and saves the result, and only then makes it current, so a
// rejected or unsaved change leaves the book as it was.
type Service struct {
	mu    sync.Mutex
	store Store
	state model.State
	log   *slog.Logger
	newID func() string
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock sets the clock used for seeding and export names.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDs sets the id generator.
func WithIDs(newID func() string) Option { return func(s *Service) { s.newID = newID } }

// Open loads the book from store.
func Open(ctx context.Context, store Store, opts ...Option) (*Service, error) {
	svc := &Service{
		store: store,
		log:   logging.Discard(),
		newID: id.New,
		now:   time.Now,
	}
	for _, o := range opts {
		o(svc)
	}

	st, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading book: %w", err)
	}
	svc.state = st
	svc.log.Debug("book loaded", "accounts", len(st.Accounts), "cost_centers", len(st.CostCenters), "transactions", len(st.Tx))
	return svc, nil
}

// State returns a copy of the current state.
func (s *Service) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) apply(ctx context.Context, op string, cmd func(model.State) (model.State, error)) (model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := cmd(s.state.Clone())
	if err != nil {
		s.log.Info("command rejected", "op", op, "error", err)
		return model.State{}, err
	}
	next.Meta = model.CurrentMeta()
	if err := schema.Check(next); err != nil {
		return model.State{}, fmt.Errorf("%s: %w: %w", op, ErrInvalid, err)
	}
	if err := s.store.Save(ctx, next); err != nil {
		s.log.Error("saving book failed", "op", op, "error", err)
		return model.State{}, fmt.Errorf("%s: %w", op, err)
	}
	s.state = next
	s.log.Info("book updated", "op", op, "transactions", len(next.Tx))
	return next.Clone(), nil
}

// freshID returns a generated id that taken rejects.
func (s *Service) freshID(taken func(string) bool) string {
	for {
		if v := s.newID(); !taken(v) {
			return v
		}
	}
}

// AddAccount creates an account and returns it.
func (s *Service) AddAccount(ctx context.Context, name string, initial decimal.Decimal) (model.Account, error) {
	var created model.Account
	_, err := s.apply(ctx, "add account", func(st model.State) (model.State, error) {
		accountID := s.freshID(func(v string) bool { _, ok := st.Account(v); return ok })
		next, err := AddAccount(st, accountID, name, initial)
		if err == nil {
			created, _ = next.Account(accountID)
		}
		return next, err
	})
	return created, err
}

// DeleteAccount removes an account by id or name.
func (s *Service) DeleteAccount(ctx context.Context, ref string) error {
	_, err := s.apply(ctx, "delete account", func(st model.State) (model.State, error) {
		a, err := ResolveAccount(st, ref)
		if err != nil {
			return st, err
		}
		return DeleteAccount(st, a.ID)
	})
	return err
}

// AddCostCenter creates a cost center and returns it.
func (s *Service) AddCostCenter(ctx context.Context, name string) (model.CostCenter, error) {
	var created model.CostCenter
	_, err := s.apply(ctx, "add cost center", func(st model.State) (model.State, error) {
		ccID := s.freshID(func(v string) bool { _, ok := st.CostCenter(v); return ok })
		next, err := AddCostCenter(st, ccID, name)
		if err == nil {
			created, _ = next.CostCenter(ccID)
		}
		return next, err
	})
	return created, err
}

// DeleteCostCenter removes a cost center by id or name.
func (s *Service) DeleteCostCenter(ctx context.Context, ref string) error {
	_, err := s.apply(ctx, "delete cost center", func(st model.State) (model.State, error) {
		c, err := ResolveCostCenter(st, ref)
		if err != nil {
			return st, err
		}
		return DeleteCostCenter(st, c.ID)
	})
	return err
}

// AddTransaction records a transaction and returns it. Account and cost
// center may be given by id or name.
func (s *Service) AddTransaction(ctx context.Context, in TxInput) (model.Transaction, error) {
	var created model.Transaction
	_, err := s.apply(ctx, "add transaction", func(st model.State) (model.State, error) {
		if in.AccountID != "" {
			a, err := ResolveAccount(st, in.AccountID)
			if err != nil {
				return st, err
			}
			in.AccountID = a.ID
		}
		if in.CostCenterID != "" {
			c, err := ResolveCostCenter(st, in.CostCenterID)
			if err != nil {
				return st, err
			}
			in.CostCenterID = c.ID
		}
		next, err := AddTransaction(st, s.freshID(st.HasTransaction), in)
		if err == nil {
			created = next.Tx[0]
		}
		return next, err
	})
	return created, err
}

// DeleteTransaction removes a transaction by id.
func (s *Service) DeleteTransaction(ctx context.Context, txID string) error {
	_, err := s.apply(ctx, "delete transaction", func(st model.State) (model.State, error) {
		return DeleteTransaction(st, txID)
	})
	return err
}

// UpdateConfig sets company and currency.
func (s *Service) UpdateConfig(ctx context.Context, company, currency string) (model.Config, error) {
	st, err := s.apply(ctx, "update config", func(st model.State) (model.State, error) {
		return UpdateConfig(st, company, currency)
	})
	return st.Cfg, err
}

// SetTheme stores the theme preference.
func (s *Service) SetTheme(ctx context.Context, theme string) (model.Theme, error) {
	st, err := s.apply(ctx, "set theme", func(st model.State) (model.State, error) {
		return SetTheme(st, theme)
	})
	return st.Cfg.Theme, err
}

// Seed adds the demo month.
func (s *Service) Seed(ctx context.Context) error {
	_, err := s.apply(ctx, "seed", func(st model.State) (model.State, error) {
		return Seed(st, s.now(), func() string { return s.freshID(st.HasTransaction) })
	})
	return err
}

// Wipe removes every transaction.
func (s *Service) Wipe(ctx context.Context) error {
	_, err := s.apply(ctx, "wipe", Wipe)
	return err
}

// ImportCSV merges a CSV ledger into the book.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (importer.Result, error) {
	var res importer.Result
	_, err := s.apply(ctx, "import csv", func(st model.State) (model.State, error) {
		next, out, err := importer.Import(st, r, importer.Options{NewID: s.newID})
		res = out
		return next, err
	})
	if err != nil {
		return importer.Result{}, err
	}
	s.log.Info("csv imported", "imported", res.Imported, "skipped", res.Skipped,
		"new_accounts", len(res.NewAccounts), "new_cost_centers", len(res.NewCostCenters))
	return res, nil
}

// ImportBackup replaces the whole book with a JSON backup.
func (s *Service) ImportBackup(ctx context.Context, raw []byte) (model.State, error) {
	incoming, err := backup.Import(raw)
	if err != nil {
		return model.State{}, err
	}
	return s.apply(ctx, "import backup", func(model.State) (model.State, error) {
		return incoming, nil
	})
}

// ExportBackup renders the book as a backup file and returns its
// suggested name.
func (s *Service) ExportBackup() ([]byte, string, error) {
	st := s.State()
	now := s.now()
	data, err := backup.Export(st, now)
	if err != nil {
		return nil, "", err
	}
	return data, backup.Filename(now), nil
}

// ExportCSV writes the ledger as CSV and returns the suggested file name.
// A nil filter exports everything in ledger order.
func (s *Service) ExportCSV(w io.Writer, f *ledger.Filter) (string, error) {
	st := s.State()
	txs, scope := st.Tx, csvio.ScopeAll
	if f != nil {
		txs, scope = ledger.Apply(st, *f), csvio.ScopeFiltered
	}

	var buf bytes.Buffer
	if err := csvio.Export(&buf, st, txs); err != nil {
		return "", err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return "", fmt.Errorf("writing csv: %w", err)
	}
	return csvio.Filename(scope, s.now()), nil
}

// IsRejection reports whether err is a command rejection rather than a
// storage failure.
func IsRejection(err error) bool {
	for _, target := range []error{ErrNotFound, ErrInvalid, ErrAccountInUse, ErrCostCenterInUse, ErrLastAccount, ErrLastCostCenter} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
