// Package storagetest поднимает in-memory SQLite со схемой ShareIt для тестов репозиториев.
// Запросы репозиториев используют плейсхолдеры $N, которые SQLite понимает без изменений.
package storagetest

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

const schema = `
CREATE TABLE users (
    id    INTEGER PRIMARY KEY AUTOINCREMENT,
    name  TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE
);
CREATE TABLE items (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    description TEXT NOT NULL,
    available   BOOLEAN NOT NULL,
    owner_id    INTEGER NOT NULL REFERENCES users (id),
    request_id  INTEGER
);
CREATE TABLE bookings (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    start_date TIMESTAMP NOT NULL,
    end_date   TIMESTAMP NOT NULL,
    item_id    INTEGER NOT NULL REFERENCES items (id),
    booker_id  INTEGER NOT NULL REFERENCES users (id),
    status     TEXT NOT NULL,
    version    INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE comments (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    text      TEXT NOT NULL,
    item_id   INTEGER NOT NULL REFERENCES items (id),
    author_id INTEGER NOT NULL REFERENCES users (id),
    created   TIMESTAMP NOT NULL
);
`

// Open создает чистую базу со схемой. Соединение одно, иначе :memory: у каждого свое
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

// InsertUser добавляет пользователя и возвращает его ID
func InsertUser(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO users (name, email) VALUES ($1, $2)`, name, name+"@example.com")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertItem добавляет вещь владельца
func InsertItem(t *testing.T, db *sql.DB, ownerID int64, name string, available bool) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO items (name, description, available, owner_id) VALUES ($1, $2, $3, $4)`,
		name, name+" description", available, ownerID,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertBooking добавляет бронирование в обход репозитория (удобно для прошлых дат)
func InsertBooking(t *testing.T, db *sql.DB, itemID, bookerID int64, start, end time.Time, status string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO bookings (start_date, end_date, item_id, booker_id, status) VALUES ($1, $2, $3, $4, $5)`,
		start.UTC(), end.UTC(), itemID, bookerID, status,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
