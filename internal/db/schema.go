package db

const createCompaniesTable = `
CREATE TABLE IF NOT EXISTS companies (
    corp_code TEXT PRIMARY KEY,
    corp_name TEXT NOT NULL,
    stock_code TEXT
);

CREATE INDEX IF NOT EXISTS idx_companies_name ON companies(corp_name);
`

const createMasterMetaTable = `
CREATE TABLE IF NOT EXISTS master_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    fetched_at TEXT NOT NULL
);
`

const insertCompany = `
INSERT OR REPLACE INTO companies (corp_code, corp_name, stock_code)
VALUES (?, ?, ?)
`

const selectCompanies = `
SELECT corp_code, corp_name, COALESCE(stock_code, '')
FROM companies
ORDER BY corp_name
`

const countCompanies = `
SELECT COUNT(*) FROM companies
`

const deleteCompanies = `
DELETE FROM companies
`

const upsertMasterMeta = `
INSERT INTO master_meta (id, fetched_at) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at
`

const selectMasterFetchedAt = `
SELECT fetched_at FROM master_meta WHERE id = 1
`

const deleteMasterMeta = `
DELETE FROM master_meta
`
