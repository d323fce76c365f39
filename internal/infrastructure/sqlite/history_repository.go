package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/atlas/internal/history"
)

const searchColumns = `id, guid, service, type, url, text, start_position, page_size, matched, error, created_at`

type historyRepository struct {
	db *sql.DB
}

func newHistoryRepository(db *sql.DB) *historyRepository {
	return &historyRepository{db: db}
}

var _ history.Repository = (*historyRepository)(nil)

func scanSearch(scanner interface{ Scan(...any) error }) (*searchModel, error) {
	var m searchModel
	err := scanner.Scan(
		&m.ID, &m.GUID, &m.Service, &m.Type, &m.URL, &m.Text,
		&m.StartPosition, &m.PageSize, &m.Matched, &m.Error, &m.CreatedAt,
	)
	return &m, err
}

// Record inserts e and sets its ID.
func (r *historyRepository) Record(e *history.Entry) error {
	m := toSearchModel(e)
	result, err := r.db.Exec(
		`INSERT INTO searches (guid, service, type, url, text, start_position, page_size, matched, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.GUID, m.Service, m.Type, m.URL, m.Text, m.StartPosition, m.PageSize, m.Matched, m.Error, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// Recent lists entries newest first. Ties on created_at fall back to
// insertion order.
func (r *historyRepository) Recent(f history.Filter) ([]*history.Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Service != "" {
		where = append(where, "service = ?")
		args = append(args, f.Service)
	}

	query := `SELECT ` + searchColumns + ` FROM searches`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*history.Entry
	for rows.Next() {
		m, err := scanSearch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		entries = append(entries, m.toEntry())
	}
	return entries, rows.Err()
}

// FindByGUID returns history.ErrNotFound for unknown GUIDs.
func (r *historyRepository) FindByGUID(guid string) (*history.Entry, error) {
	row := r.db.QueryRow(`SELECT `+searchColumns+` FROM searches WHERE guid = ?`, guid)
	m, err := scanSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", history.ErrNotFound, guid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find search: %w", err)
	}
	return m.toEntry(), nil
}

// Clear deletes all entries.
func (r *historyRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM searches`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear searches: %w", err)
	}
	return result.RowsAffected()
}
