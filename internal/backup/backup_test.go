package backup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-mpe/gmpe/internal/model"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func sample() model.State {
	s := model.DefaultState()
	s.Cfg.Company = "Padaria Central"
	s.Accounts = append(s.Accounts, model.Account{ID: "banco", Name: "Banco", InitialBalance: decimal.RequireFromString("500.25")})
	s.Tx = []model.Transaction{{
		ID: "t1", Type: model.TypeIncome, Date: "2024-03-10", Amount: decimal.NewFromInt(1000),
		AccountID: "banco", CostCenterID: model.DefaultCostCenterID, Category: "Vendas",
	}}
	return s
}

func TestExportImport_RoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	data, err := Export(sample(), now)
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal(data, &env))
	meta := env["meta"].(map[string]any)
	assert.Equal(t, "Gestão MPE", meta["app"])
	assert.Equal(t, float64(model.SchemaVersion), meta["schemaVersion"])
	assert.Equal(t, "2024-03-10T12:00:00Z", meta["exportedAt"])
	assert.Contains(t, string(data), "\n  \"state\"")

	got, err := Import(data)
	require.NoError(t, err)
	if diff := cmp.Diff(sample(), got, decimalEqual); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_BareState(t *testing.T) {
	data, err := json.Marshal(sample())
	require.NoError(t, err)

	got, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, "Padaria Central", got.Cfg.Company)
	assert.Len(t, got.Tx, 1)
}

func TestImport_MigratesLegacyShape(t *testing.T) {
	raw := `{"state": {"cfg": {"company": "Loja"}, "accounts": [{"id": "a1", "name": "Banco", "initialBalance": 10}],
		"tx": [{"id": "t1", "type": "expense", "date": "2023-01-05", "amount": 5, "accountId": "a1"}]}}`

	got, err := Import([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Loja", got.Cfg.Company)
	assert.Equal(t, model.CurrentMeta(), got.Meta)
	require.Len(t, got.Tx, 1)
	assert.Equal(t, "a1", got.Tx[0].AccountID)
	assert.Equal(t, model.DefaultCostCenterID, got.Tx[0].CostCenterID)
}

func TestImport_Incompatible(t *testing.T) {
	for _, raw := range []string{
		"not json",
		"[1, 2, 3]",
		"null",
		`"state"`,
		`{"foo": 1}`,
		`{"state": [1]}`,
		`{"a": 1} {"b": 2}`,
	} {
		_, err := Import([]byte(raw))
		assert.ErrorIs(t, err, ErrIncompatible, "input %s", raw)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "gestao-mpe-backup-2024-03-09.json", Filename(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)))
}
