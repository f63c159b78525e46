// Package output serializes the finalized header count table.
package output

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jmikkelson/wikiheaders/internal/stats"
)

// WriteJSON emits the records as a JSON array of
// {"header": ..., "counts": [h2,h3,h4,h5,h6]} objects.
func WriteJSON(w io.Writer, records []stats.HeaderRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteCSV emits one row per header with a column per heading level.
func WriteCSV(w io.Writer, records []stats.HeaderRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"header", "h2", "h3", "h4", "h5", "h6"}); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, rec := range records {
		row := make([]string, 0, 6)
		row = append(row, rec.Header)
		for _, n := range rec.Counts {
			row = append(row, strconv.FormatUint(n, 10))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteSQLite stores the records in a header_counts table, replacing
// any previous contents, in a single transaction.
func WriteSQLite(path string, records []stats.HeaderRecord) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`create table if not exists header_counts (
		header text primary key,
		h2 integer not null,
		h3 integer not null,
		h4 integer not null,
		h5 integer not null,
		h6 integer not null
	)`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("delete from header_counts"); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}
	stmt, err := tx.Prepare("insert into header_counts(header, h2, h3, h4, h5, h6) values(?,?,?,?,?,?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		c := rec.Counts
		if _, err := stmt.Exec(rec.Header, c[0], c[1], c[2], c[3], c[4]); err != nil {
			return fmt.Errorf("insert %q: %w", rec.Header, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
