package core

import "net/http"

// Operation represents the kind of call made against the OneSky API.
// It determines the status code a successful response must carry.
type Operation int

// Operation constants define all supported call kinds.
const (
	// OpRead fetches an object or a list.
	OpRead Operation = iota
	// OpCreate creates a new resource.
	OpCreate
	// OpUpdate modifies an existing resource.
	OpUpdate
	// OpDelete removes a resource.
	OpDelete
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"READ",
		"CREATE",
		"UPDATE",
		"DELETE",
	}[o]
}

// Method returns the HTTP method used for the operation.
func (o Operation) Method() string {
	switch o {
	case OpCreate:
		return http.MethodPost
	case OpUpdate:
		return http.MethodPut
	case OpDelete:
		return http.MethodDelete
	default:
		return http.MethodGet
	}
}

// ExpectedStatus returns the status code that both the HTTP response and
// the envelope's meta.status must carry for the call to succeed.
func (o Operation) ExpectedStatus() int {
	if o == OpCreate {
		return http.StatusCreated
	}
	return http.StatusOK
}
