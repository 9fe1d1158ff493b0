package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/midbel/gridcalc/grid"
	"github.com/midbel/gridcalc/layout"
	_ "modernc.org/sqlite"
)

const schema = `
create table if not exists sheets (
	name text primary key,
	lines integer not null,
	columns integer not null
);
create table if not exists cells (
	sheet text not null references sheets(name) on delete cascade,
	line integer not null,
	col integer not null,
	raw text not null,
	primary key (sheet, line, col)
);
`

// SQLite keeps any number of named sheets in a single database file. Only the
// raw text of the non empty cells is stored.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, file string) (*SQLite, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: fail to create schema: %w", file, err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// List gives the names of the stored sheets in alphabetical order.
func (s *SQLite) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "select name from sheets order by name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Save replaces the sheet called name with the content of view.
func (s *SQLite) Save(ctx context.Context, name string, view grid.View) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	size := view.Size()
	if _, err := tx.ExecContext(ctx, "delete from cells where sheet=?", name); err != nil {
		return err
	}
	q := "insert into sheets(name, lines, columns) values(?, ?, ?) on conflict(name) do update set lines=excluded.lines, columns=excluded.columns"
	if _, err := tx.ExecContext(ctx, q, name, size.Lines, size.Columns); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "insert into cells(sheet, line, col, raw) values(?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for pos, raw := range cellsOf(view) {
		if _, err := stmt.ExecContext(ctx, name, pos.Line, pos.Column, raw); err != nil {
			return fmt.Errorf("%s: fail to save %s: %w", name, pos.Addr(), err)
		}
	}
	return tx.Commit()
}

// Load rebuilds the sheet called name. Its size is the one recorded at save
// time.
func (s *SQLite) Load(ctx context.Context, name string, options ...grid.Option) (*grid.Sheet, error) {
	var size layout.Dimension
	row := s.db.QueryRowContext(ctx, "select lines, columns from sheets where name=?", name)
	if err := row.Scan(&size.Lines, &size.Columns); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrFound, name)
		}
		return nil, err
	}
	if err := checkSize(size); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	rows, err := s.db.QueryContext(ctx, "select line, col, raw from cells where sheet=?", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cells := make(map[layout.Position]string)
	for rows.Next() {
		var (
			pos layout.Position
			raw string
		)
		if err := rows.Scan(&pos.Line, &pos.Column, &raw); err != nil {
			return nil, err
		}
		cells[pos] = raw
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sheet := grid.NewSheet(name, size, options...)
	if err := sheet.LoadCells(cells, size); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, name, err)
	}
	return sheet, nil
}
