package udlai

import "sort"

// Record is a flat result row keyed by dot-joined field path. A nil
// value marks a field with no data; zero values are never used as
// missing markers.
type Record map[string]any

// Table is an ordered collection of records sharing a column set.
// Rows may hold nil for columns without data.
type Table struct {
	Columns []string
	Rows    []Record
}

// Column returns the values of one column, row by row. Rows without
// the column yield nil.
func (t *Table) Column(name string) []any {
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// tableFromRecords assembles a table whose column set is the union of
// all record keys. JSON object key order does not survive decoding, so
// columns are sorted lexicographically to keep the schema stable.
func tableFromRecords(records []Record) *Table {
	seen := make(map[string]struct{})
	var columns []string
	for _, rec := range records {
		for k := range rec {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	return &Table{Columns: columns, Rows: records}
}
