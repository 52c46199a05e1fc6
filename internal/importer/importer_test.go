package importer

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-mpe/gmpe/internal/csvio"
	"github.com/gestao-mpe/gmpe/internal/model"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func importString(t *testing.T, s model.State, data string) (model.State, Result) {
	t.Helper()
	got, res, err := Import(s, strings.NewReader(data), Options{NewID: seqIDs()})
	require.NoError(t, err)
	return got, res
}

func book() model.State {
	s := model.DefaultState()
	s.Accounts = append(s.Accounts, model.Account{ID: "banco", Name: "Banco", InitialBalance: d("500")})
	s.CostCenters = append(s.CostCenters, model.CostCenter{ID: "loja", Name: "Loja"})
	return s
}

func TestImport_RoundTrip(t *testing.T) {
	src := book()
	src.Tx = []model.Transaction{
		{ID: "t3", Type: model.TypeExpense, Date: "2024-03-10", Amount: d("1200.5"), AccountID: "banco", CostCenterID: "loja", Category: "Aluguel", Note: `sala "A", 2º andar`},
		{ID: "t2", Type: model.TypeIncome, Date: "2024-03-05", Amount: d("4200"), AccountID: model.DefaultAccountID, CostCenterID: model.DefaultCostCenterID, Category: "Vendas"},
		{ID: "t1", Type: model.TypeExpense, Date: "2024-02-01", Amount: d("0"), AccountID: model.DefaultAccountID, CostCenterID: "loja"},
	}

	var buf bytes.Buffer
	require.NoError(t, csvio.Export(&buf, src, src.Tx))

	got, res := importString(t, book(), buf.String())
	assert.Equal(t, 3, res.Imported)
	assert.Zero(t, res.Skipped)
	assert.Empty(t, res.NewAccounts)
	assert.Empty(t, res.NewCostCenters)

	if diff := cmp.Diff(src.Tx, got.Tx, decimalEqual); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_RoundTripMultiLineNote(t *testing.T) {
	src := book()
	src.Tx = []model.Transaction{
		{ID: "t2", Type: model.TypeExpense, Date: "2024-03-10", Amount: d("80"), AccountID: "banco", CostCenterID: "loja", Category: "Luz", Note: "linha 1\nlinha 2"},
		{ID: "t1", Type: model.TypeIncome, Date: "2024-03-01", Amount: d("300"), AccountID: model.DefaultAccountID, CostCenterID: model.DefaultCostCenterID, Category: "Vendas", Note: "a,\r\n\"b\""},
	}

	var buf bytes.Buffer
	require.NoError(t, csvio.Export(&buf, src, src.Tx))

	got, res := importString(t, book(), buf.String())
	assert.Equal(t, 2, res.Imported)
	assert.Zero(t, res.Skipped)
	if diff := cmp.Diff(src.Tx, got.Tx, decimalEqual); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_DuplicateIDSkipped(t *testing.T) {
	s := book()
	s.Tx = []model.Transaction{{ID: "t1", Type: model.TypeIncome, Date: "2024-03-01", Amount: d("10"),
		AccountID: model.DefaultAccountID, CostCenterID: model.DefaultCostCenterID}}

	data := "id,type,date,amount\n" +
		"t1,income,2024-03-01,10\n" +
		"t2,expense,2024-03-02,5\n" +
		"t2,expense,2024-03-02,5\n"

	got, res := importString(t, s, data)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, got.Tx, 2)
	assert.Equal(t, "t2", got.Tx[0].ID)
	assert.Equal(t, "t1", got.Tx[1].ID)

	again, res := importString(t, got, data)
	assert.Zero(t, res.Imported)
	assert.Equal(t, 3, res.Skipped)
	assert.Len(t, again.Tx, 2)
}

func TestImport_MissingColumns(t *testing.T) {
	s := book()
	for _, data := range []string{
		"",
		"\n\n",
		"id,type,date\nx,income,2024-01-01",
		"Category,Amount,Date\nA,1,2024-01-01",
	} {
		got, res, err := Import(s, strings.NewReader(data), Options{})
		require.ErrorIs(t, err, ErrMissingColumns, "input %q", data)
		assert.Zero(t, res.Imported)
		assert.Len(t, got.Tx, 0)
	}
}

func TestImport_RowRules(t *testing.T) {
	data := strings.Join([]string{
		"\ufeffTYPE,Date,AMOUNT,Account,CostCenter,category,note,Type",
		`saída,2024-03-01,"1234,50",,,Aluguel,,`,
		`SAIDA,2024-03-02,10,,,,,`,
		`Expense,2024-03-03,10,,,,,`,
		`whatever,2024-03-04,10,,,,,`,
		`,2024-03-05,"7,5",,,,,`,
		`expense,03/05/2024,10,,,,,`,
		`expense,2024-3-5,10,,,,,`,
		`expense,2024-03-06,-10,,,,,`,
		`expense,2024-03-06,abc,,,,,`,
		`expense,2024-03-06,,,,,,`,
		``,
		`   `,
	}, "\r\n")

	s := book()
	got, res := importString(t, s, data)
	assert.Equal(t, 5, res.Imported)
	assert.Equal(t, 5, res.Skipped)
	require.Len(t, got.Tx, 5)

	// Newest first.
	assert.Equal(t, "2024-03-05", got.Tx[0].Date)
	assert.Equal(t, model.TypeIncome, got.Tx[0].Type)
	assert.True(t, got.Tx[0].Amount.Equal(d("7.5")))
	assert.Equal(t, model.TypeIncome, got.Tx[1].Type, "unknown token defaults to income")
	assert.Equal(t, model.TypeExpense, got.Tx[2].Type)
	assert.Equal(t, model.TypeExpense, got.Tx[3].Type)
	assert.Equal(t, model.TypeExpense, got.Tx[4].Type)
	assert.Equal(t, "Aluguel", got.Tx[4].Category)

	for _, tx := range got.Tx {
		assert.Equal(t, model.DefaultAccountID, tx.AccountID, "empty name falls back to the first account")
		assert.Equal(t, model.DefaultCostCenterID, tx.CostCenterID)
		assert.NotEmpty(t, tx.ID)
	}
	assert.Empty(t, s.Tx, "input state is untouched")
}

func TestImport_CommaDecimal(t *testing.T) {
	got, res := importString(t, book(), "type,date,amount\nexpense,2024-03-01,\"12,34\"\n")
	require.Equal(t, 1, res.Imported)
	assert.True(t, got.Tx[0].Amount.Equal(d("12.34")))
}

func TestImport_ResolvesAndCreatesEntities(t *testing.T) {
	data := "type,date,amount,account,costcenter\n" +
		"income,2024-03-01,1,  banco ,LOJA\n" +
		"income,2024-03-02,1,Cartão,Eventos\n" +
		"income,2024-03-03,1,cartão,eventos\n"

	s := book()
	got, res := importString(t, s, data)
	require.Equal(t, 3, res.Imported)
	assert.Equal(t, []string{"Cartão"}, res.NewAccounts)
	assert.Equal(t, []string{"Eventos"}, res.NewCostCenters)

	require.Len(t, got.Accounts, 3)
	card := got.Accounts[2]
	assert.Equal(t, "Cartão", card.Name)
	assert.True(t, card.InitialBalance.IsZero())
	require.Len(t, got.CostCenters, 3)
	events := got.CostCenters[2]

	byDate := map[string]model.Transaction{}
	for _, tx := range got.Tx {
		byDate[tx.Date] = tx
	}
	assert.Equal(t, "banco", byDate["2024-03-01"].AccountID)
	assert.Equal(t, "loja", byDate["2024-03-01"].CostCenterID)
	assert.Equal(t, card.ID, byDate["2024-03-02"].AccountID)
	assert.Equal(t, events.ID, byDate["2024-03-02"].CostCenterID)
	assert.Equal(t, card.ID, byDate["2024-03-03"].AccountID)

	assert.Len(t, s.Accounts, 2, "input state is untouched")
}

func TestImport_GeneratedIDsAreUnique(t *testing.T) {
	s := book()
	s.Tx = []model.Transaction{{ID: "gen-1", Type: model.TypeIncome, Date: "2024-01-01", Amount: d("1"),
		AccountID: model.DefaultAccountID, CostCenterID: model.DefaultCostCenterID}}

	got, res := importString(t, s, "type,date,amount\nincome,2024-03-01,1\nincome,2024-03-02,1\n")
	require.Equal(t, 2, res.Imported)

	ids := make([]string, 0, len(got.Tx))
	for _, tx := range got.Tx {
		ids = append(ids, tx.ID)
	}
	assert.ElementsMatch(t, []string{"gen-1", "gen-2", "gen-3"}, ids)
}
