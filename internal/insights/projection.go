package insights

import (
	"github.com/shopspring/decimal"

	"github.com/gestao-mpe/gmpe/internal/ledger"
	"github.com/gestao-mpe/gmpe/internal/model"
)

// Projection suggests cash reserves from a single month's expenses.
type Projection struct {
	Month          string
	AverageExpense decimal.Decimal // mean expense entry of the month
	Reserve1       decimal.Decimal
	Reserve3       decimal.Decimal
	Target         decimal.Decimal // 30 days of average expense
	Balance        decimal.Decimal
	Tips           []string
}

// minEntriesForTips is the ledger size below which more data is requested.
const minEntriesForTips = 5

// Project builds the reserve projection for month ("YYYY-MM").
func Project(s model.State, month string) Projection {
	var txs []model.Transaction
	expenseSum := decimal.Zero
	expenses := 0
	for _, t := range s.Tx {
		if t.Month() != month {
			continue
		}
		txs = append(txs, t)
		if t.Type == model.TypeExpense {
			expenseSum = expenseSum.Add(t.Amount)
			expenses++
		}
	}

	avg := decimal.Zero
	if expenses > 0 {
		avg = expenseSum.Div(decimal.NewFromInt(int64(expenses)))
	}

	p := Projection{
		Month:          month,
		AverageExpense: avg,
		Reserve1:       avg,
		Reserve3:       avg.Mul(decimal.NewFromInt(3)),
		Target:         avg,
		Balance:        ledger.BalanceOverall(s),
	}

	switch {
	case avg.IsPositive() && p.Balance.LessThan(avg):
		p.Tips = append(p.Tips, "Seu saldo está abaixo da meta de 30 dias de saídas. Considere reduzir custos ou aumentar receita.")
	case avg.IsPositive():
		p.Tips = append(p.Tips, "Saldo dentro ou acima da meta de 30 dias. Próximo passo: construir reserva de 1 a 3 meses.")
	default:
		p.Tips = append(p.Tips, "Cadastre algumas saídas para gerar projeções mais úteis.")
	}

	totals := ledger.Sum(txs, nil)
	if totals.Income.IsPositive() && totals.Expense.GreaterThan(totals.Income) {
		p.Tips = append(p.Tips, "No mês selecionado, suas saídas superaram suas entradas. Investigue categorias de maior impacto.")
	}
	if len(txs) < minEntriesForTips {
		p.Tips = append(p.Tips, "Mais lançamentos geram relatórios e projeções melhores. Tente registrar diariamente por 1 semana.")
	}
	return p
}
