package database

import (
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Database представляет соединение с базой данных
type Database struct {
	db *sql.DB
}

// RunRecord представляет запись об одном запуске обучения
type RunRecord struct {
	ID           int64
	Target       string
	HiddenUnits  int
	LearningRate float64
	Samples      int
	Epochs       int
	Random       bool
	FinalError   float64
	TrainCount   int64
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// ErrorPointRecord представляет сохраненное измерение ошибки
type ErrorPointRecord struct {
	RunID      int64
	TrainCount int64
	AvgError   float64
}

// NewDatabase создает новое подключение к базе данных
func NewDatabase(dbPath string) (*Database, error) {
	// Создаем директорию если не существует
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	database := &Database{db: db}

	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return database, nil
}

// createTables создает необходимые таблицы
func (d *Database) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP,
		target TEXT NOT NULL,
		hidden_units INTEGER NOT NULL,
		learning_rate FLOAT NOT NULL,
		samples INTEGER,
		epochs INTEGER,
		random BOOLEAN NOT NULL DEFAULT 0,
		final_error FLOAT,
		train_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS error_points (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		train_count INTEGER NOT NULL,
		avg_error FLOAT,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_error_points_run_id ON error_points(run_id);
	`

	_, err := d.db.Exec(schema)
	return errors.Wrap(err, "create tables")
}

// StartRun создает запись о новом запуске
func (d *Database) StartRun(run RunRecord) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO runs (target, hidden_units, learning_rate, samples, epochs, random)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.Target, run.HiddenUnits, run.LearningRate, run.Samples, run.Epochs, run.Random,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert run")
	}
	return result.LastInsertId()
}

// RecordErrorPoint записывает измерение ошибки
func (d *Database) RecordErrorPoint(p ErrorPointRecord) error {
	_, err := d.db.Exec(
		"INSERT INTO error_points (run_id, train_count, avg_error) VALUES (?, ?, ?)",
		p.RunID, p.TrainCount, nullable(p.AvgError),
	)
	return errors.Wrapf(err, "insert error point for run %d", p.RunID)
}

// FinishRun обновляет информацию о завершенном запуске
func (d *Database) FinishRun(runID int64, finalError float64, trainCount int64) error {
	_, err := d.db.Exec(
		"UPDATE runs SET finished_at = CURRENT_TIMESTAMP, final_error = ?, train_count = ? WHERE id = ?",
		nullable(finalError), trainCount, runID,
	)
	return errors.Wrapf(err, "finish run %d", runID)
}

// nullable заменяет NaN и Inf на NULL: после расхождения обучения
// ошибка не конечна
func nullable(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

const runColumns = `id, target, hidden_units, learning_rate, samples, epochs, random,
	COALESCE(final_error, 0), train_count, started_at, finished_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (RunRecord, error) {
	var r RunRecord
	var finished sql.NullTime
	err := s.Scan(&r.ID, &r.Target, &r.HiddenUnits, &r.LearningRate, &r.Samples, &r.Epochs,
		&r.Random, &r.FinalError, &r.TrainCount, &r.StartedAt, &finished)
	if err != nil {
		return r, err
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	return r, nil
}

// GetRun возвращает запуск по идентификатору
func (d *Database) GetRun(runID int64) (*RunRecord, error) {
	row := d.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", runID)
	r, err := scanRun(row)
	if err != nil {
		return nil, errors.Wrapf(err, "get run %d", runID)
	}
	return &r, nil
}

// ListRuns возвращает последние запуски, новые первыми
func (d *Database) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := d.db.Query("SELECT "+runColumns+" FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// GetErrorPoints возвращает историю ошибки запуска в порядке обучения
func (d *Database) GetErrorPoints(runID int64) ([]ErrorPointRecord, error) {
	rows, err := d.db.Query(`
		SELECT run_id, train_count, avg_error
		FROM error_points
		WHERE run_id = ?
		ORDER BY train_count ASC
	`, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "get error points for run %d", runID)
	}
	defer rows.Close()

	var records []ErrorPointRecord
	for rows.Next() {
		var p ErrorPointRecord
		var avg sql.NullFloat64
		if err := rows.Scan(&p.RunID, &p.TrainCount, &avg); err != nil {
			return nil, err
		}
		p.AvgError = math.NaN()
		if avg.Valid {
			p.AvgError = avg.Float64
		}
		records = append(records, p)
	}

	return records, rows.Err()
}

// GetTotalRuns возвращает общее количество запусков в базе
func (d *Database) GetTotalRuns() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// Close закрывает соединение с базой данных
func (d *Database) Close() error {
	return d.db.Close()
}
