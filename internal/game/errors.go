package game

// ErrorKind classifies a chart load failure. Each kind is fatal to the session.
type ErrorKind string

func (k ErrorKind) Error() string {
	return string(k)
}

const (
	ErrLoadIO              ErrorKind = "unable to read chart"
	ErrLoadParse           ErrorKind = "unable to parse chart"
	ErrUnsupportedNoteKind ErrorKind = "unsupported note kind"
)

type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg += " " + e.Path
	}
	if nil != e.Err {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Cause lets github.com/pkg/errors unwind to the underlying failure.
func (e *LoadError) Cause() error {
	return e.Err
}

// Is matches the error kind, so errors.Is(err, ErrLoadParse) works through wrapping.
func (e *LoadError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}
