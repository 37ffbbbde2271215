// Package csvio adapts encoding/csv to the crawler's input/output shapes:
// a bounded record reader for the domain list, and a thread-safe row writer
// for the output and retry CSVs that many worker goroutines append to
// concurrently.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ecnspider/ecnspider/internal/model"
)

// RecordReader reads {rank, domain, ipv4, ipv6} rows from an input CSV,
// dropping rows with neither address populated and stopping early once
// limit raw rows have been read from the source (limit <= 0 means
// unbounded), mirroring ecn_spider.py's domain_reader/limited_reader pair —
// the original's limited_reader counts every row it reads off the source,
// before domain_reader's empty-address filter ever sees it.
type RecordReader struct {
	r     *csv.Reader
	limit int
	read  int
}

// NewRecordReader wraps src. limit <= 0 means read every row.
func NewRecordReader(src io.Reader, limit int) *RecordReader {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &RecordReader{r: cr, limit: limit}
}

// Next returns the next valid Record, or io.EOF once the source or the limit
// is exhausted.
func (rr *RecordReader) Next() (model.Record, error) {
	for {
		if rr.limit > 0 && rr.read >= rr.limit {
			return model.Record{}, io.EOF
		}
		row, err := rr.r.Read()
		if err != nil {
			return model.Record{}, err
		}
		rr.read++
		if len(row) < 2 {
			continue
		}
		rec := model.Record{Domain: row[1]}
		if rank, err := strconv.Atoi(row[0]); err == nil {
			rec.Rank = rank
		}
		if len(row) > 2 {
			rec.IPv4 = row[2]
		}
		if len(row) > 3 {
			rec.IPv6 = row[3]
		}
		if rec.IPv4 == "" && rec.IPv6 == "" {
			continue
		}
		return rec, nil
	}
}

// ReadAll drains the reader into a slice, for callers (like the filler) that
// want to range over every record rather than pull one at a time.
func (rr *RecordReader) ReadAll() ([]model.Record, error) {
	var out []model.Record
	for {
		rec, err := rr.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("csvio: reading record: %w", err)
		}
		out = append(out, rec)
	}
}
