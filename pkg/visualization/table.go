// Package visualization renders sweep plans and summaries as text tables.
package visualization

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Table is a model for data.
type Table struct {
	headers []string
	data    [][]string
}

// NewTable creates new model of data representation.
func NewTable(headers []string, data [][]string) *Table {
	return &Table{
		headers,
		data,
	}
}

// DrawTable draws a table with headers and data rows to w.
func DrawTable(w io.Writer, table *Table) {
	output := tablewriter.NewWriter(w)
	output.SetAutoFormatHeaders(false)
	output.SetHeader(table.headers)
	for _, v := range table.data {
		output.Append(v)
	}
	output.Render()
}

// DrawMap draws two column table of key and value pairs in given key order.
func DrawMap(w io.Writer, keys []string, values map[string]string) {
	data := make([][]string, 0, len(keys))
	for _, key := range keys {
		data = append(data, []string{key, values[key]})
	}
	DrawTable(w, NewTable([]string{"key", "value"}, data))
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

func fmtValue(value interface{}) string {
	return fmt.Sprintf("%v", value)
}
