// Package snapshot serializes the full account registry to a fixed-format
// binary file. The file is read once at startup and overwritten once at
// shutdown; there is no incremental persistence in between.
//
// Layout (little-endian): count:int32, then count records of 132 bytes each:
// number:int32, holder:[100]byte NUL-padded, credential:[20]byte NUL-padded,
// balance:float32, type:int32.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"

	"github.com/tellerdesk/teller/internal/model"
)

const (
	holderBytes     = 100
	credentialBytes = 20
)

// record is the on-disk layout of one account.
type record struct {
	Number     int32
	Holder     [holderBytes]byte
	Credential [credentialBytes]byte
	Balance    float32
	Type       int32
}

// Load reads a snapshot file into account records, in file order. A missing
// file is an empty registry, not an error; this is the expected state on a
// first run.
func Load(path string) ([]model.Account, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	var count int32
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading account count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("invalid account count %d", count)
	}

	accounts := make([]model.Account, 0, count)
	for i := int32(0); i < count; i++ {
		var rec record
		if err := binary.Read(f, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("reading account record %d: %w", i, err)
		}
		acct, err := unmarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("account record %d: %w", i, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// Save overwrites the snapshot file with the full registry, truncate then
// write. Load(Save(accounts)) reproduces the accounts exactly.
func Save(path string, accounts []model.Account) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}

	if err := writeAll(f, accounts); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	return nil
}

func writeAll(f *os.File, accounts []model.Account) error {
	if err := binary.Write(f, binary.LittleEndian, int32(len(accounts))); err != nil {
		return fmt.Errorf("writing account count: %w", err)
	}
	for i, acct := range accounts {
		if err := binary.Write(f, binary.LittleEndian, marshalRecord(acct)); err != nil {
			return fmt.Errorf("writing account record %d: %w", i, err)
		}
	}
	return nil
}

func marshalRecord(acct model.Account) record {
	var rec record
	rec.Number = int32(acct.Number)
	// Keep the final byte NUL so records stay C-string compatible.
	copy(rec.Holder[:holderBytes-1], acct.Holder)
	copy(rec.Credential[:credentialBytes-1], acct.Credential)
	bal, _ := acct.Balance.Float64()
	rec.Balance = float32(bal)
	rec.Type = int32(acct.Type)
	return rec
}

func unmarshalRecord(rec record) (model.Account, error) {
	accountType := model.AccountType(rec.Type)
	if !accountType.Valid() {
		return model.Account{}, fmt.Errorf("unknown account type code %d", rec.Type)
	}
	return model.Account{
		Number:     int(rec.Number),
		Holder:     cstring(rec.Holder[:]),
		Credential: cstring(rec.Credential[:]),
		Balance:    decimal.NewFromFloat32(rec.Balance),
		Type:       accountType,
	}, nil
}

// cstring returns the bytes before the first NUL.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
