// Package report renders ledger queries and insights as markdown.
package report

import (
	"bytes"
	"fmt"
	"strconv"

	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"

	"github.com/gestao-mpe/gmpe/internal/insights"
	"github.com/gestao-mpe/gmpe/internal/ledger"
	"github.com/gestao-mpe/gmpe/internal/model"
	"github.com/gestao-mpe/gmpe/internal/money"
)

var monthNames = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

func title(s model.State, text string) string {
	if s.Cfg.Company == "" {
		return text
	}
	return text + " · " + s.Cfg.Company
}

func groupTable(groups []ledger.Group, header, currency string) md.TableSet {
	t := md.TableSet{Header: []string{header, "Valor"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, money.Format(g.Value, currency)})
	}
	return t
}

func txTable(txs []model.Transaction, s model.State) md.TableSet {
	t := md.TableSet{Header: []string{"Data", "Tipo", "Categoria", "Conta", "Centro de custo", "Valor", "Id"}}
	for _, tx := range txs {
		account, costCenter := "", ""
		if a, ok := s.Account(tx.AccountID); ok {
			account = a.Name
		}
		if c, ok := s.CostCenter(tx.CostCenterID); ok {
			costCenter = c.Name
		}
		t.Rows = append(t.Rows, []string{
			tx.Date, typeLabel(tx.Type), ledger.CategoryKey(tx), account, costCenter,
			money.Format(tx.Signed(), s.Cfg.Currency), tx.ID,
		})
	}
	return t
}

func typeLabel(t model.TxType) string {
	if t == model.TypeExpense {
		return "Saída"
	}
	return "Entrada"
}

// Summary is the month panel: totals for the filtered entries, the overall
// balance and the impact rankings.
func Summary(s model.State, f ledger.Filter) string {
	txs := ledger.Apply(s, f)
	totals := ledger.Sum(txs, nil)
	cur := s.Cfg.Currency

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title(s, "Resumo "+periodLabel(f.Month)))
	doc.Table(md.TableSet{
		Header: []string{"Indicador", "Valor"},
		Rows: [][]string{
			{"Entradas", money.Format(totals.Income, cur)},
			{"Saídas", money.Format(totals.Expense, cur)},
			{"Resultado", money.Format(totals.Net, cur)},
			{md.Bold("Saldo geral"), md.Bold(money.Format(ledger.BalanceOverall(s), cur))},
		},
	})

	if len(txs) == 0 {
		doc.PlainText("Nenhum lançamento no período.")
		return doc.String()
	}

	doc.H2("Por categoria")
	doc.Table(groupTable(ledger.ByCategory(txs), "Categoria", cur))
	doc.H2("Por conta")
	doc.Table(groupTable(ledger.ByAccount(s, txs), "Conta", cur))
	doc.H2("Por centro de custo")
	doc.Table(groupTable(ledger.ByCostCenter(s, txs), "Centro de custo", cur))

	if top := ledger.TopExpenses(txs, ledger.DefaultTopN); len(top) > 0 {
		doc.H2("Maiores saídas")
		doc.Table(txTable(top, s))
	}
	return doc.String()
}

func periodLabel(month string) string {
	if month == "" || month == ledger.All {
		return "geral"
	}
	return month
}

// Transactions lists the filtered ledger, newest first.
func Transactions(s model.State, f ledger.Filter) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title(s, "Lançamentos"))
	txs := ledger.Apply(s, f)
	if len(txs) == 0 {
		doc.PlainText("Nenhum lançamento encontrado.")
		return doc.String()
	}
	doc.Table(txTable(txs, s))
	doc.PlainText(fmt.Sprintf("%d lançamento(s).", len(txs)))
	return doc.String()
}

// Accounts lists accounts with their balances.
func Accounts(s model.State) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Contas")
	t := md.TableSet{Header: []string{"Conta", "Saldo inicial", "Saldo atual", "Id"}}
	for _, a := range s.Accounts {
		t.Rows = append(t.Rows, []string{
			a.Name,
			money.Format(a.InitialBalance, s.Cfg.Currency),
			money.Format(ledger.AccountBalance(s, a.ID), s.Cfg.Currency),
			a.ID,
		})
	}
	doc.Table(t)
	return doc.String()
}

// CostCenters lists cost centers with their usage.
func CostCenters(s model.State) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Centros de custo")
	t := md.TableSet{Header: []string{"Centro de custo", "Lançamentos", "Id"}}
	for _, c := range s.CostCenters {
		n := 0
		for _, tx := range s.Tx {
			if tx.CostCenterID == c.ID {
				n++
			}
		}
		t.Rows = append(t.Rows, []string{c.Name, strconv.Itoa(n), c.ID})
	}
	doc.Table(t)
	return doc.String()
}

// Insights renders the yearly insight panel.
func Insights(s model.State, r insights.Report) string {
	cur := s.Cfg.Currency

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title(s, "Insights "+r.Year))

	runway := "não calculável (sem saídas)"
	if r.RunwayOK {
		runway = r.Runway.StringFixed(1) + " meses"
	}
	concentration := "sem saídas"
	if r.Concentration.OK {
		concentration = fmt.Sprintf("%s (%s)", r.Concentration.Category, percent(r.Concentration.Share))
	}
	doc.Table(md.TableSet{
		Header: []string{"Indicador", "Valor"},
		Rows: [][]string{
			{"Entradas no ano", money.Format(r.Totals.Income, cur)},
			{"Saídas no ano", money.Format(r.Totals.Expense, cur)},
			{"Saldo geral", money.Format(r.Balance, cur)},
			{"Média mensal de saídas", money.Format(r.AverageMonthlyExpense, cur)},
			{"Runway", runway},
			{"Maior concentração", concentration},
			{"Meses negativos", strconv.Itoa(r.NegativeMonths)},
		},
	})

	if len(r.Advisories) > 0 {
		doc.H2("Alertas")
		doc.BulletList(r.Advisories...)
	}

	doc.H2("Recorrências")
	if len(r.Recurring) == 0 {
		doc.PlainText(fmt.Sprintf("Nenhuma categoria de saída em %d ou mais meses.", insights.RecurrenceMinMonths))
	} else {
		items := make([]string, len(r.Recurring))
		for i, rec := range r.Recurring {
			items[i] = fmt.Sprintf("%s: %d meses", rec.Category, rec.Months)
		}
		doc.BulletList(items...)
	}

	doc.H2("Série mensal")
	series := md.TableSet{Header: []string{"Mês", "Entradas", "Saídas", "Resultado"}}
	for i, m := range r.Series {
		series.Rows = append(series.Rows, []string{
			monthNames[i], money.Format(m.Income, cur), money.Format(m.Expense, cur), money.Format(m.Net, cur),
		})
	}
	doc.Table(series)

	if len(r.ByCategory) > 0 {
		doc.H2("Categorias no ano")
		doc.Table(groupTable(r.ByCategory, "Categoria", cur))
	}
	return doc.String()
}

// Projection renders the reserve projection for a month.
func Projection(s model.State, p insights.Projection) string {
	cur := s.Cfg.Currency

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title(s, "Projeção "+p.Month))
	doc.Table(md.TableSet{
		Header: []string{"Indicador", "Valor"},
		Rows: [][]string{
			{"Saída média por lançamento", money.Format(p.AverageExpense, cur)},
			{"Reserva de 1 mês", money.Format(p.Reserve1, cur)},
			{"Reserva de 3 meses", money.Format(p.Reserve3, cur)},
			{"Meta de 30 dias", money.Format(p.Target, cur)},
			{"Saldo geral", money.Format(p.Balance, cur)},
		},
	})
	doc.H2("Dicas")
	doc.BulletList(p.Tips...)
	return doc.String()
}

func percent(share decimal.Decimal) string {
	return share.Shift(2).StringFixed(1) + "%"
}
