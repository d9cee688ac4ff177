// Package domain holds cross-cutting domain types and sentinel errors.
package domain

import "errors"

var (
	// ErrRecordNotFound signals a missing inspection record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrLotNotFound signals a lot with no stored records.
	ErrLotNotFound = errors.New("lot not found")
	// ErrSnapshotNotFound signals that a lot has no recoverable snapshot.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrProjectExists signals an already-initialized project folder.
	ErrProjectExists = errors.New("project already exists")
	// ErrProjectNotFound signals a missing project info file.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput signals a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
