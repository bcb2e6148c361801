package storage

import "linkvault/pkg/serrors"

// Transaction misuse is a programming error, so both are internal errors.
var (
	// ErrAlreadyInTx is returned by Begin on a handle that is itself a transaction.
	ErrAlreadyInTx = serrors.With(serrors.ErrInternal, "already in tx")
	// ErrNotInTx is returned by Commit and Rollback outside of a transaction.
	ErrNotInTx = serrors.With(serrors.ErrInternal, "not in tx")
)
