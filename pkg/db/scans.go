package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Scan is one recorded annotate run.
type Scan struct {
	ScanID    int64
	URL       string
	Domain    string
	ScannedAt time.Time
	Matches   int
	Annotated int
}

// AnnotationRecord is one badge recorded for a scan.
type AnnotationRecord struct {
	AnnotationID   int64
	ScanID         int64
	AmountRaw      string
	Amount         string
	Currency       string
	Converted      float64
	TargetCurrency string
	Label          string
}

// RecordScan inserts a scan row and returns its scan_id.
func (db *DB) RecordScan(url, domain string, matches, annotated int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO scans (url, domain, matches, annotated)
		VALUES (?, ?, ?, ?)
	`, NewNullString(url), NewNullString(domain), matches, annotated)
	if err != nil {
		return 0, fmt.Errorf("failed to record scan: %w", err)
	}

	scanID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan ID: %w", err)
	}
	return scanID, nil
}

// RecordAnnotation inserts an annotation for scanID.
func (db *DB) RecordAnnotation(a AnnotationRecord) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO annotations (scan_id, amount_raw, amount, currency, converted, target_currency, label)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ScanID, a.AmountRaw, a.Amount, a.Currency, a.Converted, NewNullString(a.TargetCurrency), NewNullString(a.Label))
	if err != nil {
		return 0, fmt.Errorf("failed to record annotation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get annotation ID: %w", err)
	}
	return id, nil
}

// ListScans returns the most recent scans, newest first.
func (db *DB) ListScans(limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT scan_id, COALESCE(url, ''), COALESCE(domain, ''), scanned_at, matches, annotated
		FROM scans
		ORDER BY scan_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var s Scan
		if err := rows.Scan(&s.ScanID, &s.URL, &s.Domain, &s.ScannedAt, &s.Matches, &s.Annotated); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// GetAnnotations returns the annotations recorded for scanID in insertion order.
func (db *DB) GetAnnotations(scanID int64) ([]AnnotationRecord, error) {
	rows, err := db.Query(`
		SELECT annotation_id, scan_id, amount_raw, amount, currency,
		       COALESCE(converted, 0), COALESCE(target_currency, ''), COALESCE(label, '')
		FROM annotations
		WHERE scan_id = ?
		ORDER BY annotation_id
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get annotations: %w", err)
	}
	defer rows.Close()

	var out []AnnotationRecord
	for rows.Next() {
		var a AnnotationRecord
		if err := rows.Scan(&a.AnnotationID, &a.ScanID, &a.AmountRaw, &a.Amount, &a.Currency,
			&a.Converted, &a.TargetCurrency, &a.Label); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// NewNullString creates a sql.NullString that is NULL for the empty string.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
