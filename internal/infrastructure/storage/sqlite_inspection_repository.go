package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

const inspectionsSchema = `
CREATE TABLE IF NOT EXISTS inspections (
	id           TEXT PRIMARY KEY,
	created_at   TEXT NOT NULL,
	inspector    TEXT NOT NULL,
	batch        TEXT NOT NULL,
	status       TEXT NOT NULL,
	health_score REAL NOT NULL,
	defects      INTEGER NOT NULL
);
`

// SQLiteInspectionRepository — журнал инспекций в SQLite.
type SQLiteInspectionRepository struct {
	db *sql.DB
}

// NewSQLiteInspectionRepository открывает базу и выполняет миграцию.
func NewSQLiteInspectionRepository(dbPath string) (*SQLiteInspectionRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(inspectionsSchema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteInspectionRepository{db: db}, nil
}

// Close закрывает соединение с базой.
func (r *SQLiteInspectionRepository) Close() error {
	return r.db.Close()
}

// Save сохраняет запись об инспекции
func (r *SQLiteInspectionRepository) Save(ctx context.Context, rec *entity.InspectionRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inspections (id, created_at, inspector, batch, status, health_score, defects)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.Inspector,
		rec.Batch,
		string(rec.Status),
		rec.HealthScore,
		rec.DefectCount,
	)
	if err != nil {
		return fmt.Errorf("insert inspection: %w", err)
	}
	return nil
}

// List возвращает последние записи, новые первыми
func (r *SQLiteInspectionRepository) List(ctx context.Context, limit int) ([]*entity.InspectionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, inspector, batch, status, health_score, defects
		 FROM inspections ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query inspections: %w", err)
	}
	defer rows.Close()

	var out []*entity.InspectionRecord
	for rows.Next() {
		var rec entity.InspectionRecord
		var createdAt, status string
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Inspector, &rec.Batch,
			&status, &rec.HealthScore, &rec.DefectCount); err != nil {
			return nil, fmt.Errorf("scan inspection: %w", err)
		}
		rec.Status = entity.Status(status)
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Проверка реализации интерфейса
var _ port.InspectionRepository = (*SQLiteInspectionRepository)(nil)
