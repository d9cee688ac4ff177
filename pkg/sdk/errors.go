package dimtol

import "github.com/verimetric/dimtol/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrRecordNotFound   = domain.ErrRecordNotFound
	ErrLotNotFound      = domain.ErrLotNotFound
	ErrSnapshotNotFound = domain.ErrSnapshotNotFound
	ErrInvalidInput     = domain.ErrInvalidInput
)
