package db

import "context"

// Database is the connection-pool level handle used by repositories.
type Database interface {
	Querier

	// Transaction runs fn inside a transaction, committing on nil error.
	Transaction(ctx context.Context, fn func(tx Transaction) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Transaction is a Querier bound to a single database transaction.
type Transaction interface {
	Querier
	Commit() error
	Rollback() error
}

// Scanner is satisfied by both Row and Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Row is the result of QueryRow.
type Row interface {
	Scanner
}

// Rows is an iterator over a query result.
type Rows interface {
	Scanner
	Next() bool
	Close() error
	Err() error
}

// Result summarizes an executed statement.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}
