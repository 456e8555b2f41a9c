package registry

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tellerdesk/teller/internal/model"
)

const (
	numFields  = 4
	colNumber  = 0
	colHolder  = 1
	colBalance = 2
	colType    = 3
)

// ExportHeader is the header row of the admin CSV export.
var ExportHeader = []string{"AccountNumber", "AccountHolder", "Balance", "Type"}

// WriteCSV writes the admin export: header plus one row per account, in
// registry order. An empty registry yields a header-only file.
func WriteCSV(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to an export row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colNumber] = strconv.Itoa(acct.Number)
	row[colHolder] = acct.Holder
	row[colBalance] = acct.Balance.StringFixed(2)
	row[colType] = acct.Type.String()
	return row
}
