// Package csvio reads and writes the ledger CSV format.
package csvio

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gestao-mpe/gmpe/internal/buildinfo"
	"github.com/gestao-mpe/gmpe/internal/model"
)

// Header is the CSV header written on export.
const Header = "id,type,date,amount,account,costCenter,category,note"

// Export scopes used in file names.
const (
	ScopeAll      = "all"
	ScopeFiltered = "filtered"
)

const (
	numFields       = 8
	colID           = 0
	colType         = 1
	colDate         = 2
	colAmount       = 3
	colAccount      = 4
	colCostCenter   = 5
	colCategory     = 6
	colNote         = 7
	filenameDateFmt = "2006-01-02"
)

// Columns lists the recognized header names, lower-cased.
var Columns = []string{"id", "type", "date", "amount", "account", "costcenter", "category", "note"}

// Records splits raw CSV text into records. A line break inside a quoted
// field belongs to the field; CRLF line endings are accepted.
func Records(raw string) []string {
	var records []string
	start := 0
	quoted := false
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '"':
			quoted = !quoted
		case '\n':
			if !quoted {
				records = append(records, strings.TrimSuffix(raw[start:i], "\r"))
				start = i + 1
			}
		}
	}
	return append(records, strings.TrimSuffix(raw[start:], "\r"))
}

// SplitLine splits one CSV line into fields. Quotes toggle quoted mode,
// a doubled quote inside a quoted field is a literal quote, and commas
// inside quotes do not separate fields.
func SplitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	quoted := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && quoted && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}

// QuoteField wraps v in double quotes, doubling embedded quotes.
func QuoteField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// FormatRow quotes every field and joins them with commas.
func FormatRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = QuoteField(f)
	}
	return strings.Join(quoted, ",")
}

// MarshalTx converts a transaction into a CSV row. Account and cost
// center are written by name so the file can be imported into another
// book; unknown references are written empty.
func MarshalTx(s model.State, t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colType] = string(t.Type)
	row[colDate] = t.Date
	row[colAmount] = t.Amount.String()
	if a, ok := s.Account(t.AccountID); ok {
		row[colAccount] = a.Name
	}
	if c, ok := s.CostCenter(t.CostCenterID); ok {
		row[colCostCenter] = c.Name
	}
	row[colCategory] = t.Category
	row[colNote] = t.Note
	return row
}

// Export writes the header and one row per transaction.
func Export(w io.Writer, s model.State, txs []model.Transaction) error {
	if _, err := io.WriteString(w, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txs {
		if _, err := io.WriteString(w, "\n"+FormatRow(MarshalTx(s, t))); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return nil
}

// Filename is the export file name for scope on the given day.
func Filename(scope string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s.csv", buildinfo.AppSlug, scope, now.Format(filenameDateFmt))
}
