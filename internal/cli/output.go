package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// orderedKeys fixes the row order of key-value summaries
var orderedKeys = []string{"Name", "Framework", "Port", "Add-ons", "Repository"}

// OutputFormat selects how command summaries are rendered
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
)

// DataWriter renders command summaries as aligned tables or JSON
type DataWriter struct {
	output io.Writer
	format OutputFormat
}

// NewDataWriter creates a DataWriter; anything but "json" renders tables
func NewDataWriter(output io.Writer, format string) *DataWriter {
	of := OutputFormatTable
	if format == string(OutputFormatJSON) {
		of = OutputFormatJSON
	}
	return &DataWriter{output: output, format: of}
}

// WriteStruct writes a value as JSON; table output needs a builder
func (dw *DataWriter) WriteStruct(data interface{}) error {
	if dw.format != OutputFormatJSON {
		return fmt.Errorf("table format not supported for arbitrary values")
	}
	return dw.writeJSON(data)
}

func (dw *DataWriter) writeJSON(data interface{}) error {
	encoder := json.NewEncoder(dw.output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (dw *DataWriter) writeKeyValue(title string, data map[string]interface{}) error {
	if dw.format == OutputFormatJSON {
		return dw.writeJSON(data)
	}

	if title != "" {
		_, _ = fmt.Fprintf(dw.output, "\n%s\n", title)
	}

	keys := make([]string, 0, len(data))
	known := make(map[string]bool, len(orderedKeys))
	for _, key := range orderedKeys {
		known[key] = true
		if _, ok := data[key]; ok {
			keys = append(keys, key)
		}
	}
	var rest []string
	for key := range data {
		if !known[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	w := tabwriter.NewWriter(dw.output, 0, 0, 2, ' ', 0)
	for _, key := range keys {
		if value := data[key]; value != nil && value != "" {
			_, _ = fmt.Fprintf(w, "  %s:\t%v\t\n", key, value)
		}
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(dw.output)
	return nil
}

func (dw *DataWriter) writeTable(headers []string, rows [][]string) error {
	if dw.format == OutputFormatJSON {
		records := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			record := make(map[string]string, len(headers))
			for i, header := range headers {
				if i < len(row) {
					record[header] = row[i]
				}
			}
			records = append(records, record)
		}
		return dw.writeJSON(records)
	}

	_, _ = fmt.Fprintln(dw.output)
	w := tabwriter.NewWriter(dw.output, 0, 0, 2, ' ', 0)
	for _, cells := range append([][]string{headers}, rows...) {
		for _, cell := range cells {
			_, _ = fmt.Fprintf(w, "%s\t", cell)
		}
		_, _ = fmt.Fprintln(w)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(dw.output)
	return nil
}

// TableBuilder collects rows under fixed headers
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder creates a TableBuilder
func NewTableBuilder(headers ...string) *TableBuilder {
	return &TableBuilder{headers: headers}
}

// AddRow appends a row
func (tb *TableBuilder) AddRow(values ...string) *TableBuilder {
	tb.rows = append(tb.rows, values)
	return tb
}

// Write renders the table
func (tb *TableBuilder) Write(dw *DataWriter) error {
	return dw.writeTable(tb.headers, tb.rows)
}

// KeyValueBuilder collects a titled block of key-value pairs
type KeyValueBuilder struct {
	title string
	data  map[string]interface{}
}

// NewKeyValueBuilder creates a KeyValueBuilder
func NewKeyValueBuilder(title string) *KeyValueBuilder {
	return &KeyValueBuilder{title: title, data: make(map[string]interface{})}
}

// Add sets a pair
func (kvb *KeyValueBuilder) Add(key string, value interface{}) *KeyValueBuilder {
	kvb.data[key] = value
	return kvb
}

// AddIf sets a pair when condition holds
func (kvb *KeyValueBuilder) AddIf(condition bool, key string, value interface{}) *KeyValueBuilder {
	if condition {
		kvb.data[key] = value
	}
	return kvb
}

// Write renders the block
func (kvb *KeyValueBuilder) Write(dw *DataWriter) error {
	return dw.writeKeyValue(kvb.title, kvb.data)
}
