//go:build !cgo

package indexdb

import (
	_ "modernc.org/sqlite"
)

const whichSQLiteDriver = "sqlite"
