// Package ingest parses transaction records from CSV input and normalizes
// them into the ordering the engine's input contract requires.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/arya-s-cmd/financial-forensic-engine"
)

// expected CSV header: sender,receiver,amount,timestamp[,id]
var requiredColumns = []string{"sender", "receiver", "amount", "timestamp"}

// FromCSV reads transaction rows from r, validates each one, and returns
// them sorted ascending by (timestamp, sender, receiver) per the engine's
// input contract — the engine itself never re-sorts.
func FromCSV(r io.Reader) ([]mulegraph.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: read header: %w", err)
	}
	col, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var txns []mulegraph.Transaction
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d: %w", row, err)
		}

		txn, err := parseRow(record, col)
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d: %w", row, err)
		}
		txns = append(txns, txn)
	}

	if err := mulegraph.ValidateTransactions(txns); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	sort.SliceStable(txns, func(i, j int) bool {
		if txns[i].Timestamp != txns[j].Timestamp {
			return txns[i].Timestamp < txns[j].Timestamp
		}
		if txns[i].Sender != txns[j].Sender {
			return txns[i].Sender < txns[j].Sender
		}
		return txns[i].Receiver < txns[j].Receiver
	})

	return txns, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("ingest: missing required column %q", c)
		}
	}
	return idx, nil
}

func parseRow(record []string, col map[string]int) (mulegraph.Transaction, error) {
	amount, err := strconv.ParseFloat(record[col["amount"]], 64)
	if err != nil {
		return mulegraph.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}
	ts, err := parseTimestamp(record[col["timestamp"]])
	if err != nil {
		return mulegraph.Transaction{}, fmt.Errorf("parse timestamp: %w", err)
	}

	txn := mulegraph.Transaction{
		Sender:    record[col["sender"]],
		Receiver:  record[col["receiver"]],
		Amount:    amount,
		Timestamp: ts,
	}
	if idIdx, ok := col["id"]; ok && idIdx < len(record) {
		txn.ID = record[idIdx]
	}

	return txn, nil
}

// parseTimestamp auto-detects an epoch-seconds integer or an RFC3339
// timestamp and returns epoch seconds either way.
func parseTimestamp(raw string) (int64, error) {
	if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ts, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, fmt.Errorf("not an epoch-seconds integer or RFC3339 timestamp: %q", raw)
	}
	return t.Unix(), nil
}
