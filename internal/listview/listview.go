// Package listview narrows loaded records to the ones an operator searched
// for. It never queries the store.
package listview

import (
	"strings"

	"free-rent/internal/models"
	"free-rent/internal/schema"
)

// Filter returns the records whose column contains query, ignoring case.
// An empty query returns records unchanged.
func Filter[T models.Entity](table *schema.Table, records []T, column, query string) ([]T, error) {
	if _, ok := table.Column(column); !ok && column != "" {
		return nil, schema.UnknownColumn(table, column)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return records, nil
	}
	if column == "" {
		column = DefaultColumn(table)
	}

	needle := strings.ToLower(query)
	out := make([]T, 0, len(records))
	for _, r := range records {
		v, err := table.Value(r, column)
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(v), needle) {
			out = append(out, r)
		}
	}
	return out, nil
}

// DefaultColumn is the column searched when none is chosen: the first
// editable column, listed right after the id.
func DefaultColumn(table *schema.Table) string {
	if cols := table.FormColumns(); len(cols) > 0 {
		return cols[0].DBName
	}
	return table.ColumnNames()[0]
}

// SearchColumns lists the columns an operator may search on.
func SearchColumns(table *schema.Table) []string {
	return table.ColumnNames()
}
