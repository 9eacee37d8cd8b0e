package errs

// Category sentinels shared by every layer. Domain packages mark their precise
// errors with one of these so the routing layer can map them without knowing
// each individual cause.
var (
	// Business outcomes, part of the normal contract
	ErrInsufficientCapacity  = New("insufficient capacity")
	ErrDateConflict          = New("date conflict")
	ErrGranularityMismatch   = New("granularity mismatch")
	ErrNegotiationNotAllowed = New("negotiation not allowed")
	ErrInvalidTransition     = New("invalid transition")
	ErrNotAuthorized         = New("not authorized")
	ErrValidation            = New("validation error")
	ErrNotFound              = New("not found")

	// Configuration errors are surfaced, never clamped away
	ErrInvalidDiscountConfiguration = New("invalid discount configuration")

	// Integrity errors abort the current request and are logged for reconciliation
	ErrIntegrityViolation = New("integrity violation")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
