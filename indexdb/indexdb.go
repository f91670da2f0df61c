// Package indexdb stores the original per-cohort row of every kept variant in
// a SQLite file, so a downstream reader can look positions up by variant
// rather than scanning the index table.
package indexdb

import (
	"fmt"
	"strings"

	"github.com/carbocation/infomerge/infotable"
	"github.com/carbocation/infomerge/missingness"
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v3"
)

const schema = `
CREATE TABLE cohort (
	group_id INTEGER PRIMARY KEY,
	info_path TEXT NOT NULL
);
CREATE TABLE variant_position (
	snp TEXT NOT NULL,
	ref TEXT NOT NULL,
	alt TEXT NOT NULL,
	genotyped TEXT NOT NULL,
	group_id INTEGER NOT NULL,
	position INTEGER NOT NULL
);
CREATE INDEX variant_position_key ON variant_position (snp, ref, alt, genotyped);
`

type DB struct {
	*sqlx.DB
}

// Cohort is one row of the cohort table.
type Cohort struct {
	GroupID  int    `db:"group_id"`
	InfoPath string `db:"info_path"`
}

type position struct {
	GroupID  int   `db:"group_id"`
	Position int64 `db:"position"`
}

func uri(path string) string {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path
}

// Create makes a new, empty index at path.
func Create(path string) (*DB, error) {
	db, err := sqlx.Connect(whichSQLiteDriver, uri(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return &DB{DB: db}, nil
}

// Open opens an existing index read-only.
func Open(path string) (*DB, error) {
	db, err := sqlx.Connect(whichSQLiteDriver, uri(path)+"?mode=ro")
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &DB{DB: db}, nil
}

// Insert stores the cohorts and every present position of entries in one
// transaction.
func (db *DB) Insert(cohorts []Cohort, entries []missingness.IndexEntry) error {
	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	for _, c := range cohorts {
		if _, err := tx.NamedExec("INSERT INTO cohort (group_id, info_path) VALUES (:group_id, :info_path)", c); err != nil {
			return pfx.Err(err)
		}
	}

	stmt, err := tx.Preparex("INSERT INTO variant_position (snp, ref, alt, genotyped, group_id, position) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return pfx.Err(err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		for c, pos := range entry.Positions {
			if !pos.Valid {
				continue
			}
			if _, err := stmt.Exec(entry.SNP, entry.Ref, entry.Alt, entry.Genotyped, c+1, pos.Int64); err != nil {
				return pfx.Err(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// Cohorts lists the groups stored in the index, in group order.
func (db *DB) Cohorts() ([]Cohort, error) {
	out := []Cohort{}
	if err := db.Select(&out, "SELECT group_id, info_path FROM cohort ORDER BY group_id"); err != nil {
		return nil, pfx.Err(err)
	}
	return out, nil
}

// Positions returns the original row of k in each of the n cohorts. Cohorts
// without the variant are invalid entries.
func (db *DB) Positions(k infotable.Key, n int) ([]null.Int, error) {
	rows := []position{}
	err := db.Select(&rows,
		"SELECT group_id, position FROM variant_position WHERE snp=? AND ref=? AND alt=? AND genotyped=?",
		k.SNP, k.Ref, k.Alt, k.Genotyped)
	if err != nil {
		return nil, pfx.Err(err)
	}

	out := make([]null.Int, n)
	for _, r := range rows {
		if r.GroupID < 1 || r.GroupID > n {
			return nil, fmt.Errorf("%s: group %d is outside 1..%d", k, r.GroupID, n)
		}
		out[r.GroupID-1] = null.IntFrom(r.Position)
	}

	return out, nil
}
