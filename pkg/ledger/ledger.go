// Package ledger keeps a sqlite record of runs: what happened to each
// manifest entry and every file written. It says the same things as the
// diagnostic log, but in a form that can be queried.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/andrew-torda/ligprep/pdb/cmmn"
)

// Ledger is the data access layer.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the database at dbPath and makes sure the
// tables exist.
func Open(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	l := &Ledger{db: db}
	if err := l.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Migrate creates the tables. Idempotent.
func (l *Ledger) Migrate() error {
	if _, err := l.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id              TEXT PRIMARY KEY,
  command         TEXT NOT NULL,
  started         TIMESTAMP NOT NULL,
  finished        TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
  id              INTEGER PRIMARY KEY,
  run_id          TEXT NOT NULL REFERENCES runs(id),
  ordinal         INTEGER NOT NULL,
  pdb_id          TEXT NOT NULL,
  ligand          TEXT,
  ligand_name     TEXT,
  title           TEXT,
  resolution      TEXT,
  status          TEXT NOT NULL,
  detail          TEXT
);

CREATE TABLE IF NOT EXISTS groups_ (
  id              INTEGER PRIMARY KEY,
  entry_id        INTEGER NOT NULL REFERENCES entries(id),
  group_key       TEXT NOT NULL,
  path            TEXT,
  n_atom          INTEGER NOT NULL,
  x               REAL,
  y               REAL,
  z               REAL,
  error           TEXT
);

CREATE INDEX IF NOT EXISTS idx_entries_run ON entries(run_id, ordinal);
CREATE INDEX IF NOT EXISTS idx_entries_pdb ON entries(pdb_id);
CREATE INDEX IF NOT EXISTS idx_groups_entry ON groups_(entry_id);
`

// Entry is what happened to one manifest row.
type Entry struct {
	PDBID      string
	Ligand     string
	LigandName string // from _chem_comp
	Title      string
	Resolution string
	Status     string
	Detail     string
	Groups     []Group
}

// Group is one extracted group. Path is empty if writing failed, and
// then Error says why.
type Group struct {
	Key      string
	Path     string
	NAtom    int
	Centroid cmmn.Xyz
	Error    string
}

// StartRun makes a new run and returns its id.
func (l *Ledger) StartRun(command string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := l.db.Exec("INSERT INTO runs (id, command, started) VALUES (?, ?, ?)",
		id.String(), command, time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// FinishRun stamps the run as complete.
func (l *Ledger) FinishRun(run uuid.UUID) error {
	res, err := l.db.Exec("UPDATE runs SET finished = ? WHERE id = ?", time.Now().UTC(), run.String())
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return fmt.Errorf("finish run: no run %s", run)
	}
	return nil
}

func nullXyz(xyz cmmn.Xyz) (x, y, z sql.NullFloat64) {
	if !xyz.Ok() {
		return
	}
	return sql.NullFloat64{Float64: float64(xyz.X), Valid: true},
		sql.NullFloat64{Float64: float64(xyz.Y), Valid: true},
		sql.NullFloat64{Float64: float64(xyz.Z), Valid: true}
}

// Record stores one entry and its groups in a single transaction.
func (l *Ledger) Record(run uuid.UUID, ordinal int, e Entry) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	res, err := tx.Exec(`INSERT INTO entries (run_id, ordinal, pdb_id, ligand, ligand_name,
		title, resolution, status, detail) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.String(), ordinal, e.PDBID, e.Ligand, e.LigandName, e.Title, e.Resolution, e.Status, e.Detail)
	if err != nil {
		return fmt.Errorf("insert entry %s: %w", e.PDBID, err)
	}
	entryID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO groups_ (entry_id, group_key, path, n_atom, x, y, z, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare groups: %w", err)
	}
	defer stmt.Close()
	for _, g := range e.Groups {
		x, y, z := nullXyz(g.Centroid)
		if _, err := stmt.Exec(entryID, g.Key, g.Path, g.NAtom, x, y, z, g.Error); err != nil {
			return fmt.Errorf("insert group %s of %s: %w", g.Key, e.PDBID, err)
		}
	}
	return tx.Commit()
}

// Entries returns what was recorded for a run, in manifest order.
func (l *Ledger) Entries(run uuid.UUID) ([]Entry, error) {
	rows, err := l.db.Query(`SELECT id, pdb_id, ligand, ligand_name, title, resolution,
		status, detail FROM entries WHERE run_id = ? ORDER BY ordinal`, run.String())
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	var ids []int64
	var ret []Entry
	for rows.Next() {
		var id int64
		var e Entry
		var ligand, name, title, res, detail sql.NullString
		if err := rows.Scan(&id, &e.PDBID, &ligand, &name, &title, &res, &e.Status, &detail); err != nil {
			rows.Close()
			return nil, err
		}
		e.Ligand, e.LigandName, e.Detail = ligand.String, name.String, detail.String
		e.Title, e.Resolution = title.String, res.String
		ids = append(ids, id)
		ret = append(ret, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, id := range ids {
		if ret[i].Groups, err = l.groups(id); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (l *Ledger) groups(entryID int64) ([]Group, error) {
	rows, err := l.db.Query(`SELECT group_key, path, n_atom, x, y, z, error FROM groups_
		WHERE entry_id = ? ORDER BY id`, entryID)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()
	var ret []Group
	for rows.Next() {
		var g Group
		var path, gerr sql.NullString
		var x, y, z sql.NullFloat64
		if err := rows.Scan(&g.Key, &path, &g.NAtom, &x, &y, &z, &gerr); err != nil {
			return nil, err
		}
		g.Path, g.Error = path.String, gerr.String
		g.Centroid = cmmn.BrokenXyz
		if x.Valid && y.Valid && z.Valid {
			g.Centroid = cmmn.Xyz{X: float32(x.Float64), Y: float32(y.Float64), Z: float32(z.Float64)}
		}
		ret = append(ret, g)
	}
	return ret, rows.Err()
}
