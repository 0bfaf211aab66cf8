package refdata

import (
	"fmt"
	"io"
	"strings"
)

// DumpTables writes every table's columns and rows to w in a plain
// pipe-separated layout. Debug aid for inspecting the reference dataset.
func (s *Store) DumpTables(w io.Writer) error {
	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tables: %w", err)
	}

	for _, table := range tables {
		fmt.Fprintf(w, "== Table: %s ==\n", table)
		if err := s.dumpTable(w, table); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (s *Store) dumpTable(w io.Writer, table string) error {
	// table names come from sqlite_master, not user input
	rows, err := s.db.Query(`SELECT * FROM "` + table + `"`)
	if err != nil {
		return fmt.Errorf("query table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("columns of %s: %w", table, err)
	}
	fmt.Fprintln(w, strings.Join(cols, " | "))

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan row of %s: %w", table, err)
		}
		cells := make([]string, len(cols))
		for i, v := range values {
			switch t := v.(type) {
			case nil:
				cells[i] = "NULL"
			case []byte:
				cells[i] = string(t)
			default:
				cells[i] = fmt.Sprint(t)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, " | "))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows of %s: %w", table, err)
	}
	return nil
}
