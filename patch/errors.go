package patch

import "errors"

var (
	// ErrMalformedOperation marks producer output the validator could not
	// repair.
	ErrMalformedOperation = errors.New("patch: malformed operation")

	// ErrUnsupportedOperation marks operation kinds the engine does not
	// implement.
	ErrUnsupportedOperation = errors.New("patch: unsupported operation")

	// ErrTargetNotFound means no matching strategy located the target.
	ErrTargetNotFound = errors.New("patch: target not found")

	// ErrTargetAmbiguous means several locations matched a local operation
	// and nothing distinguished them.
	ErrTargetAmbiguous = errors.New("patch: target ambiguous")

	// ErrStructuralConflict means the target collides with structural item
	// numbering in a disallowed way.
	ErrStructuralConflict = errors.New("patch: structural conflict")

	// ErrPersistenceFailure wraps load, backup and save failures. It is
	// fatal for the whole session.
	ErrPersistenceFailure = errors.New("patch: persistence failure")
)
