package lifecycle

import "github.com/nellaibill/teachersbank/models"

// Store is the storage seam for the dispatch lifecycle. Every method that
// performs more than one write runs it inside a single transaction, so a
// reader never observes a dispatch without its level-1 followup or a
// resolved followup without its escalation.
//
// Lookup methods return (nil, nil) when the row does not exist; the service
// turns that into ErrNotFound.
type Store interface {
	// ActiveTeacherByBarcode resolves a barcode to the one active teacher
	// carrying it.
	ActiveTeacherByBarcode(barcode string) (*models.Teacher, error)

	// CreateDispatch inserts the dispatch and its level-1 followup
	// atomically. A (teacher_id, dispatch_date) uniqueness violation is
	// reported as ErrConflict.
	CreateDispatch(d *models.Dispatch, first *models.Followup) error

	FollowupByID(id uint) (*models.Followup, error)
	DispatchByID(id uint) (*models.Dispatch, error)

	// SaveFollowup persists the updated followup and, when next is not nil,
	// inserts the next-level followup in the same transaction. The insert
	// is a no-op when that level already exists for the dispatch (the
	// idempotence guard); nextCreated reports whether the row went in.
	SaveFollowup(f *models.Followup, next *models.Followup) (nextCreated bool, err error)
}
