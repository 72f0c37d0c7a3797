// Package errs defines the component-independent error taxonomy used across
// the reconciliation pipeline (spec.md §7). Errors are classified by
// wrapping one of the sentinel values below with fmt.Errorf("...: %w", ...),
// the same convention the teacher's internal/repositories and
// internal/notification packages use for ErrNotFound / ErrSendFailed.
package errs

import "errors"

var (
	// ErrConfig marks a fatal configuration problem — missing required
	// environment variable, invalid value, or a deprecated flag name used
	// in place of its canonical replacement. Fatal at process level.
	ErrConfig = errors.New("configuration error")

	// ErrTransport marks a network-level failure (connection refused,
	// timeout, DNS) that C2's retry policy may have already exhausted.
	ErrTransport = errors.New("transport error")

	// ErrRateLimited marks an HTTP 429 (or a 403 classified as rate-limit-ish,
	// see SPEC_FULL.md Decision D2) that survived C2's retry budget.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuth marks an authentication/authorization failure against the
	// TimeCamp API (invalid or expired API key). Fatal at process level.
	ErrAuth = errors.New("authentication error")

	// ErrNotFound marks a missing resource (user, group) on the TimeCamp side.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks a request TimeCamp rejected as malformed.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks a uniqueness violation (e.g. duplicate email).
	ErrConflict = errors.New("conflict")

	// ErrPermissionDenied marks an HTTP 403 that is NOT a disguised rate
	// limit (see Decision D2) — the API key lacks the right to perform the
	// operation. Not retried.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInternal marks a defect in this program, not in its environment.
	ErrInternal = errors.New("internal error")
)

// Kind identifies which of the sentinel errors above an error carries, for
// callers that need to branch on taxonomy rather than handle a single case
// with errors.Is.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindTransport
	KindRateLimited
	KindAuth
	KindNotFound
	KindValidation
	KindConflict
	KindPermissionDenied
	KindInternal
)

// Classify returns the Kind of the first sentinel in err's chain that
// matches, or KindUnknown if err does not wrap any of them.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrInternal):
		return KindInternal
	default:
		return KindUnknown
	}
}

// Fatal reports whether an error of this Kind should abort the whole process
// (Auth, Config) rather than be logged and skipped at the user/group level.
func (k Kind) Fatal() bool {
	return k == KindConfig || k == KindAuth
}
