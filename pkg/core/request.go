package core

import (
	"io"
	"maps"
	"strconv"
)

// Content types sent by the client.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=UTF-8"
)

type Params map[string]string

// FilePart is one file of a multipart upload.
type FilePart struct {
	Field    string
	FileName string
	Reader   io.Reader
}

// Request describes a single call against the API. Query holds the caller's
// parameters only; authentication parameters are added when it is executed.
type Request struct {
	Operation   Operation  `json:"operation"`
	Path        string     `json:"path"`
	Route       string     `json:"route"`
	Query       Params     `json:"query,omitempty"`
	Body        any        `json:"body,omitempty"`
	ContentType string     `json:"content_type"`
	Form        Params     `json:"form,omitempty"`
	Files       []FilePart `json:"-"`
}

// NewRequest creates a JSON request for op against path.
func NewRequest(op Operation, path string) *Request {
	return &Request{
		Operation:   op,
		Path:        path,
		Route:       path,
		Query:       make(Params),
		ContentType: ContentTypeJSON,
	}
}

// Method returns the HTTP method of the request.
func (r *Request) Method() string {
	return r.Operation.Method()
}

// ExpectedStatus returns the status a successful response must carry.
func (r *Request) ExpectedStatus() int {
	return r.Operation.ExpectedStatus()
}

// Multipart reports whether the request carries form parts.
func (r *Request) Multipart() bool {
	return len(r.Files) > 0
}

// SetRoute sets the path template used to label the request in logs and metrics.
func (r *Request) SetRoute(route string) *Request {
	r.Route = route
	return r
}

func (r *Request) SetQuery(key, value string) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	r.Query[key] = value
	return r
}

// SetQueryInt sets an integer query parameter in decimal form.
func (r *Request) SetQueryInt(key string, value int64) *Request {
	return r.SetQuery(key, strconv.FormatInt(value, 10))
}

// SetQueryOpt sets key only when value is non-empty.
func (r *Request) SetQueryOpt(key, value string) *Request {
	if value == "" {
		return r
	}
	return r.SetQuery(key, value)
}

func (r *Request) SetQueryParams(params Params) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	maps.Copy(r.Query, params)
	return r
}

func (r *Request) SetBody(body any) *Request {
	r.Body = body
	return r
}

func (r *Request) SetContentType(contentType string) *Request {
	r.ContentType = contentType
	return r
}

func (r *Request) SetFormField(key, value string) *Request {
	if r.Form == nil {
		r.Form = make(Params)
	}
	r.Form[key] = value
	return r
}

// AddFile attaches a file part and switches the request to multipart/form-data.
func (r *Request) AddFile(field, fileName string, reader io.Reader) *Request {
	r.Files = append(r.Files, FilePart{Field: field, FileName: fileName, Reader: reader})
	r.ContentType = ""
	return r
}
