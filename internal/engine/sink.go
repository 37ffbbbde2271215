package engine

import (
	"github.com/ecnspider/ecnspider/internal/csvio"
	"github.com/ecnspider/ecnspider/internal/model"
)

// CSVSink writes result and retry rows to the crawl's two output CSVs. It
// is the production ResultSink; tests use a recording fake instead.
type CSVSink struct {
	Output *csvio.Writer
	Retry  *csvio.Writer
}

func (s *CSVSink) WriteResult(r model.ProbeResult) error {
	return s.Output.WriteRow(r.MarshalCSVRow())
}

func (s *CSVSink) WriteRetry(rank int, domain, ip string) error {
	return s.Retry.WriteRow(model.RetryRow(rank, domain, ip))
}
