package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrSessionClosed = errors.New("db: session closed")
)

// Op constants name the failing operation for error context.
// Redis ops use command names; SQL ops name the statement kind.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHSet        = "HSET"
	OpGet         = "GET"
	OpSet         = "SET"

	OpBegin     = "BEGIN"
	OpCount     = "SELECT COUNT"
	OpSelect    = "SELECT"
	OpAggregate = "SELECT GROUP BY"
	OpKNN       = "SELECT KNN"
	OpMigrate   = "MIGRATE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
