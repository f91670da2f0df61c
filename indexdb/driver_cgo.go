//go:build cgo

package indexdb

// With cgo, use the mattn sqlite3 driver.

import (
	_ "github.com/mattn/go-sqlite3"
)

const whichSQLiteDriver = "sqlite3"
