package compdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

//go:generate mockgen -destination=compdbmock/sink.go -package=compdbmock github.com/albertocavalcante/compdb/pkg/compdb Sink

// Sink receives records as the walk produces them.
type Sink interface {
	Emit(record Record) error
}

// Collector accumulates records in emit order.
type Collector struct {
	records []Record
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{records: []Record{}}
}

// Emit appends record.
func (c *Collector) Emit(record Record) error {
	c.records = append(c.records, record)
	return nil
}

// Records returns the collected records.
func (c *Collector) Records() []Record {
	return c.records
}

// Len returns the number of collected records.
func (c *Collector) Len() int {
	return len(c.records)
}

// StreamSink writes every record immediately as its own one-element JSON
// array. The concatenated output is not a single JSON document; it
// matches the framing of older compdb releases.
type StreamSink struct {
	w     io.Writer
	count int
}

// NewStreamSink creates a sink writing to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// Emit writes record as "[{...}]".
func (s *StreamSink) Emit(record Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]Record{record}); err != nil {
		return fmt.Errorf("failed to encode record for %s: %w", record.File, err)
	}
	// Encode terminates with a newline; the legacy framing has none.
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write record for %s: %w", record.File, err)
	}
	s.count++
	return nil
}

// Count returns the number of records written.
func (s *StreamSink) Count() int {
	return s.count
}
