package util

// ErrPublic is an error whose message is safe to show to the end user
// verbatim (as opposed to internal errors which are only ever logged).
type ErrPublic string

func (e ErrPublic) Error() string {
	return string(e)
}
