package snippet

import "errors"

// Sentinel errors. Use errors.Is to test for them.
var (
	ErrUnknownSnippet  = errors.New("unknown snippet")
	ErrNoHelpAvailable = errors.New("no help information available")
)

// NameError reports a problem with one snippet name.
type NameError struct {
	Name string
	Err  error
}

func (e *NameError) Error() string {
	switch e.Err {
	case ErrUnknownSnippet:
		return `Unknown snippet "` + e.Name + `"`
	case ErrNoHelpAvailable:
		return `No help information available for "` + e.Name + `"`
	default:
		return e.Err.Error() + `: "` + e.Name + `"`
	}
}

func (e *NameError) Unwrap() error { return e.Err }

// AnnotatedError is an error with a hint from the catalog appended.
type AnnotatedError struct {
	Err  error
	Hint string
}

func (e *AnnotatedError) Error() string {
	return e.Err.Error() + " (" + e.Hint + ")"
}

func (e *AnnotatedError) Unwrap() error { return e.Err }
