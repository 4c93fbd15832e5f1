package storage

import (
	"database/sql"
	"strings"

	"cine-catalog/catalog"
)

// predicate is a list of WHERE clauses joined with AND.
type predicate struct {
	clauses []string
	args    []any
}

func (p *predicate) add(clause string, args ...any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

func (p predicate) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// listPredicate translates the genre clause of a list filter for the movies
// and series tables. Search is left to catalog.Filter.Matches in collect:
// SQLite's LOWER only folds ASCII, so a LIKE narrowing would drop rows whose
// title or description differ from the query in non-ASCII case.
func listPredicate(f catalog.Filter) predicate {
	var p predicate
	if f.HasGenre() {
		p.add("genre = ?", f.Genre)
	}
	return p
}

// collect scans rows in order, drops duplicate ids and rows that fail keep,
// and stops after catalog.ListLimit records. keep re-applies the filter in Go
// so collation differences between engines cannot widen the result.
func collect[T any](rows *sql.Rows, scan func(scanner) (T, error), id func(T) int64, keep func(T) bool) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0, catalog.ListLimit)
	seen := make(map[int64]struct{})
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id(rec)]; dup || !keep(rec) {
			continue
		}
		seen[id(rec)] = struct{}{}
		out = append(out, rec)
		if len(out) == catalog.ListLimit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
