package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrHashRecordNotFound is returned when a query expected to match at
	// least one hash record for a document produces an empty result set.
	ErrHashRecordNotFound = errors.New("no hash record was found")

	// ErrChainEmpty is returned by LatestChainBlock when the hash chain has
	// no blocks yet. The chain engine treats it as the genesis signal, not
	// as a failure.
	ErrChainEmpty = errors.New("hash chain is empty")

	// ErrBlobNotFound is returned when a requested blob does not exist in
	// the blob store.
	ErrBlobNotFound = errors.New("encrypted blob not found")

	// ErrBlobWrite is returned when persisting a blob or its attribute
	// sidecar fails.
	ErrBlobWrite = errors.New("failed to write blob")

	// ErrBlobRead is returned when loading a blob or its attribute sidecar
	// fails for a reason other than absence.
	ErrBlobRead = errors.New("failed to read blob")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan ledger row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan ledger rows")
)
