package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Settings: key/value store, one row per stored setting
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Scans: one row per annotate run
CREATE TABLE IF NOT EXISTS scans (
    scan_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT,
    domain TEXT,
    scanned_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    matches INTEGER DEFAULT 0,
    annotated INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_scans_domain ON scans(domain);
CREATE INDEX IF NOT EXISTS idx_scans_time ON scans(scanned_at DESC);

-- Annotations: every badge inserted during a scan
CREATE TABLE IF NOT EXISTS annotations (
    annotation_id INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_id INTEGER NOT NULL,
    amount_raw TEXT NOT NULL,
    amount TEXT NOT NULL,           -- decimal string, never a float
    currency TEXT NOT NULL,
    converted REAL,
    target_currency TEXT,
    label TEXT,
    FOREIGN KEY (scan_id) REFERENCES scans(scan_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_annotations_scan ON annotations(scan_id);
`
