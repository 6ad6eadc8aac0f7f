package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"poolKit/internal/builder"
	"poolKit/internal/model"
)

// callRecord flattens a quote or build into the record written to stdout
// and the results sink.
type callRecord struct {
	op       string
	chainID  uint64
	poolID   common.Hash
	poolType model.PoolType
	kind     string
	bptIndex int
	tokenIdx int
	bpt      model.TokenAmount
	amounts  []model.TokenAmount
	tx       *builder.Tx
}

func (c callRecord) record(now time.Time) model.CallRecord {
	rec := model.CallRecord{
		ChainID:    c.chainID,
		Operation:  c.op,
		PoolID:     c.poolID.Hex(),
		PoolType:   string(c.poolType),
		Kind:       c.kind,
		BptIndex:   c.bptIndex,
		TokenIndex: c.tokenIdx,
		Bpt:        rawString(c.bpt),
		Tokens:     make([]string, len(c.amounts)),
		Amounts:    make([]string, len(c.amounts)),
		CreatedAt:  now.UTC().Format(time.RFC3339),
	}
	for i, a := range c.amounts {
		rec.Tokens[i] = a.Token.Address.Hex()
		rec.Amounts[i] = rawString(a)
	}
	if c.tx != nil {
		rec.To = c.tx.To.Hex()
		rec.Value = "0"
		if c.tx.Value != nil {
			rec.Value = c.tx.Value.Dec()
		}
		rec.Data = hexutil.Encode(c.tx.Data)
	}
	return rec
}

func rawString(a model.TokenAmount) string {
	return a.Amount().Dec()
}

func writeJSON(w io.Writer, v interface{}) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(payload))
	return err
}

// emit prints the records and appends them to --out when set.
func (e *env) emit(w io.Writer, calls ...callRecord) error {
	now := time.Now()
	records := make([]model.CallRecord, len(calls))
	for i, c := range calls {
		records[i] = c.record(now)
	}
	for _, r := range records {
		if err := writeJSON(w, r); err != nil {
			return err
		}
	}
	return e.record(records...)
}
