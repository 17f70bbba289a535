package schwab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Report file names.
const (
	DividendFile    = "dividend_transactions.csv"
	InterestFile    = "interest_transactions.csv"
	TaxDeductedFile = "tax_deducted_transactions.csv"
	SaleFile        = "sale_transactions.csv"
)

// EncodeTable writes t as CSV: a header with the table columns, then one record per row.
// An empty table is a header only.
func EncodeTable[T Record](w io.Writer, t Table[T]) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	for _, r := range t {
		if err := cw.Write(r.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// rename moves a file into place.
var rename = os.Rename

// WriteReport writes the four tables of r into dir, and returns the written paths.
//
// Every table is first written to a temporary file in dir. The report files are replaced
// only once all of them were written; if one of them cannot be moved into place, the
// reports already replaced are restored, so dir holds either all the new reports or none.
func WriteReport(dir string, r *Report) ([]string, error) {
	names := []string{DividendFile, InterestFile, TaxDeductedFile, SaleFile}
	encoders := []func(io.Writer) error{
		func(w io.Writer) error { return EncodeTable(w, r.Dividends) },
		func(w io.Writer) error { return EncodeTable(w, r.Interest) },
		func(w io.Writer) error { return EncodeTable(w, r.TaxDeducted) },
		func(w io.Writer) error { return EncodeTable(w, r.Sales) },
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("write error: %w", err)
	}
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if fi, err := os.Stat(paths[i]); err == nil && !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("write error: %s is not a regular file", paths[i])
		}
	}

	staged := make([]string, len(names))
	defer func() {
		for _, tmp := range staged {
			if tmp != "" {
				os.Remove(tmp)
			}
		}
	}()
	for i, encode := range encoders {
		tmp, err := writeTemp(dir, encode)
		if err != nil {
			return nil, fmt.Errorf("write error: %s: %w", names[i], err)
		}
		staged[i] = tmp
	}
	if err := commit(paths, staged); err != nil {
		return nil, fmt.Errorf("write error: %w", err)
	}
	return paths, nil
}

// commit moves each staged file onto its target. Existing targets are kept aside until
// every file is in place, and put back if any move fails. Consumed staged paths are reset.
func commit(targets, staged []string) error {
	backups := make([]string, len(targets))
	undo := func(n int) error {
		var errs []error
		for i := n - 1; i >= 0; i-- {
			var err error
			if backups[i] != "" {
				err = rename(backups[i], targets[i])
			} else if staged[i] == "" {
				err = os.Remove(targets[i])
			}
			if err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for i, target := range targets {
		if _, err := os.Lstat(target); err == nil {
			backup := staged[i] + ".bak"
			if err := rename(target, backup); err != nil {
				return errors.Join(err, undo(i))
			}
			backups[i] = backup
		}
		if err := rename(staged[i], target); err != nil {
			return errors.Join(err, undo(i+1))
		}
		staged[i] = ""
	}
	for _, b := range backups {
		if b != "" {
			os.Remove(b)
		}
	}
	return nil
}

// writeTemp writes a new temporary file in dir with encode, and returns its path.
func writeTemp(dir string, encode func(io.Writer) error) (string, error) {
	tmp, err := os.CreateTemp(dir, "tmp-*.csv")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	if err := encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}
