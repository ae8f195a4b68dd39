package apperr

import (
	"errors"
	"strings"
)

// Error codes shared by every layer, from the ledger core up to the
// transports.
const (
	BadRequest = "BAD_REQ"  // missing or malformed input
	BadValue   = "BAD_VAL"  // present but fails a semantic check
	NotFound   = "NOT_FOUND"
	Exists     = "EXISTS"   // duplicate identifier at the storage layer
	Internal   = "INTERNAL" // programming or configuration error
	DB         = "DB"       // storage failure
)

// Error is a single {message, code} pair.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

// List accumulates errors from independent checks so that all of them can be
// reported in one response. The zero value is ready to use.
type List []Error

// New returns a List holding a single error.
func New(code, message string) List {
	return List{{Message: message, Code: code}}
}

// Add appends an error to the list.
func (l *List) Add(code, message string) {
	*l = append(*l, Error{Message: message, Code: code})
}

// Merge appends every error carried by err. A List is appended element by
// element, anything else becomes a single entry with the INTERNAL code.
func (l *List) Merge(err error) {
	if err == nil {
		return
	}
	var other List
	if errors.As(err, &other) {
		*l = append(*l, other...)
		return
	}
	l.Add(Internal, err.Error())
}

// Err returns nil when the list is empty and the list itself otherwise, so
// callers can write `if err := errs.Err(); err != nil`.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	msgs := make([]string, 0, len(l))
	for _, e := range l {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any error in the list carries code.
func (l List) Has(code string) bool {
	for _, e := range l {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Wrap classifies an infrastructure error under code.
func Wrap(code string, err error) error {
	if err == nil {
		return nil
	}
	return New(code, err.Error())
}

// CodeOf returns the code of the first error carried by err, or INTERNAL when
// err is not a List.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var l List
	if errors.As(err, &l) && len(l) > 0 {
		return l[0].Code
	}
	return Internal
}

// Errors converts err into a List for rendering.
func Errors(err error) List {
	if err == nil {
		return nil
	}
	var l List
	if errors.As(err, &l) {
		return l
	}
	return New(Internal, err.Error())
}
