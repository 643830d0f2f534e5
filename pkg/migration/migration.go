// Package migration runs versioned schema migrations on the SQL stores.
//
// Migrations register themselves from database/migrations:
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// and run through the CLI:
//
//	bazaar migrate            // run all pending
//	bazaar migrate:rollback   // roll back the last batch
//	bazaar migrate:status
package migration

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "bazaar_migrations" }

// Entry is a named migration.
type Entry struct {
	Name      string
	Migration Migration
}

var registry []Entry

// Register adds a migration. Names are timestamp prefixed and run in
// lexical order.
func Register(name string, m Migration) {
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns the registered migrations in run order.
func Registered() []Entry {
	out := append([]Entry(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ErrNoMigrations is returned by Run when nothing is registered.
var ErrNoMigrations = errors.New("no migrations registered")

// Runner applies and tracks migrations, reporting progress to Out.
type Runner struct {
	db      *gorm.DB
	entries []Entry
	Out     io.Writer
}

// New returns a Runner over the registered migrations.
func New(db *gorm.DB, out io.Writer) *Runner {
	return NewWith(db, out, Registered())
}

// NewWith returns a Runner over the given migrations.
func NewWith(db *gorm.DB, out io.Writer, entries []Entry) *Runner {
	if out == nil {
		out = io.Discard
	}
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, entries: sorted, Out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&migrationRecord{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]migrationRecord, error) {
	var records []migrationRecord
	if err := r.db.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]migrationRecord, len(records))
	for _, rec := range records {
		out[rec.Name] = rec
	}
	return out, nil
}

// Pending returns the migrations not yet applied.
func (r *Runner) Pending() ([]Entry, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.entries {
		if _, ok := ran[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run applies every pending migration as one batch and returns the names
// applied.
func (r *Runner) Run() ([]string, error) {
	if len(r.entries) == 0 {
		return nil, ErrNoMigrations
	}

	pending, err := r.Pending()
	if err != nil {
		return nil, fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.Out, "Nothing to migrate.")
		return nil, nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return nil, err
	}
	batch++

	var applied []string
	for _, e := range pending {
		logger.Info("migration: running", "name", e.Name)

		if err := e.Migration.Up(r.db); err != nil {
			return applied, fmt.Errorf("migration: %s up: %w", e.Name, err)
		}
		if err := r.db.Create(&migrationRecord{Name: e.Name, Batch: batch}).Error; err != nil {
			return applied, fmt.Errorf("migration: record %s: %w", e.Name, err)
		}

		fmt.Fprintf(r.Out, "Migrated:  %s\n", e.Name)
		applied = append(applied, e.Name)
	}

	logger.Info("migration: done", "ran", len(applied), "batch", batch)
	return applied, nil
}

// Rollback reverses the most recent batch and returns the names rolled
// back.
func (r *Runner) Rollback() ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}

	batch, err := r.lastBatch()
	if err != nil {
		return nil, err
	}
	if batch == 0 {
		fmt.Fprintln(r.Out, "Nothing to roll back.")
		return nil, nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		byName[e.Name] = e.Migration
	}

	var rolled []string
	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return rolled, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		if err := m.Down(r.db); err != nil {
			return rolled, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&migrationRecord{}, rec.ID).Error; err != nil {
			return rolled, err
		}

		fmt.Fprintf(r.Out, "Rolled back:  %s\n", rec.Name)
		rolled = append(rolled, rec.Name)
	}
	return rolled, nil
}

// Status describes one migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Status lists every migration and whether it has run.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(r.entries))
	for _, e := range r.entries {
		rec, ok := ran[e.Name]
		out = append(out, Status{Name: e.Name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max struct{ Max int }
	err := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&max).Error
	return max.Max, err
}
