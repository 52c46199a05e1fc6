package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-mpe/gmpe/internal/config"
	"github.com/gestao-mpe/gmpe/internal/model"
	"github.com/gestao-mpe/gmpe/internal/schema"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir, err := NewDir(filepath.Join(t.TempDir(), "books"))
	require.NoError(t, err)
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "gmpe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]KV{
		"memory": NewMemory(),
		"dir":    dir,
		"sqlite": db,
	}
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Put(ctx, "k", []byte(`{"a":1}`)))
			got, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, string(got))

			require.NoError(t, kv.Put(ctx, "k", []byte(`{"a":2}`)))
			got, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `{"a":2}`, string(got))

			require.NoError(t, kv.Delete(ctx, "k"))
			_, err = kv.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, kv.Delete(ctx, "k"), "deleting an absent key is not an error")
		})
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", value))
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestDir_RejectsPathKeys(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, d.Put(ctx, "../escape", []byte("x")))
	assert.Error(t, d.Put(ctx, "", []byte("x")))
	_, err = d.Get(ctx, ".hidden")
	assert.Error(t, err)
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gmpe.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Put(ctx, schema.CurrentKey, []byte("{}")))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Get(ctx, schema.CurrentKey)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
}

func TestOpen(t *testing.T) {
	kv, err := Open(config.StoreConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open(config.StoreConfig{Driver: config.DriverDir, Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Dir{}, kv)

	kv, err = Open(config.StoreConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	require.NoError(t, kv.Close())

	_, err = Open(config.StoreConfig{Driver: "redis"})
	assert.Error(t, err)
}

func TestGateway_LoadEmptyReturnsDefault(t *testing.T) {
	g := NewGateway(NewMemory(), nil)
	s, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultState(), s)
}

func TestGateway_SaveLoad(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemory(), nil)

	s := model.DefaultState()
	s.Cfg.Company = "Oficina"
	s.Tx = append(s.Tx, model.Transaction{
		ID: "t1", Type: model.TypeIncome, Date: "2024-05-01", Amount: decimal.NewFromInt(90),
		AccountID: model.DefaultAccountID, CostCenterID: model.DefaultCostCenterID,
	})
	require.NoError(t, g.Save(ctx, s))

	got, err := g.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Oficina", got.Cfg.Company)
	require.Len(t, got.Tx, 1)
	assert.True(t, got.Tx[0].Amount.Equal(decimal.NewFromInt(90)))
}

func TestGateway_MigratesLegacyKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	v1 := `{"cfg":{"company":"Loja","currency":"BRL","theme":"light"},
		"tx":[{"id":"a","type":"expense","date":"2023-02-01","amount":50,"category":"Internet","note":""}]}`
	require.NoError(t, kv.Put(ctx, schema.KeyV1, []byte(v1)))

	s, err := NewGateway(kv, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Loja", s.Cfg.Company)
	require.Len(t, s.Tx, 1)
	assert.Equal(t, model.DefaultAccountID, s.Tx[0].AccountID)

	raw, err := kv.Get(ctx, schema.CurrentKey)
	require.NoError(t, err, "migrated state is written under the current key")
	back, migrated, err := schema.Load(raw)
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.Equal(t, s.Tx[0].ID, back.Tx[0].ID)
}

func TestGateway_PrefersNewerLegacyKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Put(ctx, schema.KeyV1, []byte(`{"cfg":{"company":"v1"},"tx":[]}`)))
	require.NoError(t, kv.Put(ctx, schema.KeyV2, []byte(`{"cfg":{"company":"v2"},"accounts":[{"id":"b","name":"Banco","initialBalance":10}],"tx":[]}`)))

	s, err := NewGateway(kv, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2", s.Cfg.Company)
	assert.Equal(t, "Banco", s.Accounts[0].Name)
}

func TestGateway_SkipsUndecodableLegacy(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Put(ctx, schema.KeyV2, []byte(`not json`)))
	require.NoError(t, kv.Put(ctx, schema.KeyV1, []byte(`{"cfg":{"company":"v1"},"tx":[]}`)))

	s, err := NewGateway(kv, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", s.Cfg.Company)
}

func TestGateway_CorruptCurrentFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Put(ctx, schema.CurrentKey, []byte(`{"cfg":`)))

	s, err := NewGateway(kv, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultState(), s)
}

func TestGateway_RepairsCurrentState(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	raw := `{"cfg":{"company":"x","currency":"BRL","theme":"dark"},
		"accounts":[{"id":"a","name":"A","initialBalance":0}],
		"costCenters":[{"id":"c","name":"C"}],
		"tx":[{"id":"t","type":"income","date":"2024-01-01","amount":1,"accountId":"gone","costCenterId":"c","category":"","note":""}]}`
	require.NoError(t, kv.Put(ctx, schema.CurrentKey, []byte(raw)))

	s, err := NewGateway(kv, nil).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", s.Tx[0].AccountID)
	assert.NoError(t, schema.Check(s))
}

type failingKV struct{ *Memory }

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestGateway_StoreErrorsSurface(t *testing.T) {
	_, err := NewGateway(failingKV{NewMemory()}, nil).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}
