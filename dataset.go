package postalcode

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
)

//go:embed postal_codes.csv
var embeddedDataset []byte

// LoadTable reads postal_code,city records from r. Loading stops at the first
// record that fails to parse: that record and every record after it are
// dropped. The returned error is the one that stopped loading, or nil when
// the whole input was read.
func LoadTable(r io.Reader) (map[uint32]string, int, error) {
	table := make(map[uint32]string)

	rdr := csv.NewReader(r)
	header, err := rdr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table, 0, nil
		}
		return table, 0, fmt.Errorf("read header: %w", err)
	}

	codeCol, cityCol := -1, -1
	for i, name := range header {
		switch name {
		case "postal_code":
			codeCol = i
		case "city":
			cityCol = i
		}
	}

	rows := 0
	for {
		record, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			return table, rows, nil
		}
		if err != nil {
			return table, rows, fmt.Errorf("row %d: %w", rows+1, err)
		}
		if codeCol < 0 || cityCol < 0 {
			return table, rows, fmt.Errorf("row %d: missing postal_code or city column", rows+1)
		}

		code, err := strconv.ParseUint(record[codeCol], 10, 32)
		if err != nil {
			return table, rows, fmt.Errorf("row %d: postal_code %q: %w", rows+1, record[codeCol], err)
		}

		table[uint32(code)] = record[cityCol]
		rows++
	}
}

// loadDataset never fails; a broken dataset gives a shorter (possibly empty)
// table.
func loadDataset(r io.Reader) map[uint32]string {
	table, rows, err := LoadTable(r)
	if err != nil {
		log.Printf("[dataset] Loading stopped after %d rows: %v", rows, err)
	}
	return table
}

func embeddedReader() io.Reader {
	return bytes.NewReader(embeddedDataset)
}
