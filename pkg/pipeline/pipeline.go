// Package pipeline turns executed OneSky requests into typed results.
//
// Every call is one request/response round trip: the request is executed,
// the {meta, data} envelope is decoded and its status checked, and data is
// converted by a caller-supplied converter. The three fetch shapes are Object,
// List and Paged. Exec and Raw cover calls whose bodies carry no data member.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"onesky/internal/transport"
	"onesky/pkg/core"
)

// Executor sends one request and checks its HTTP status.
type Executor interface {
	Execute(ctx context.Context, req *core.Request) (*transport.Response, error)
}

// Pipeline is shared by every resource wrapper of a client.
type Pipeline struct {
	exec Executor
}

func New(exec Executor) *Pipeline {
	return &Pipeline{exec: exec}
}

func (p *Pipeline) fetch(ctx context.Context, req *core.Request) (envelope, error) {
	resp, err := p.exec.Execute(ctx, req)
	if err != nil {
		return envelope{}, withPath(err, req.Path)
	}
	env, err := decodeEnvelope(resp.Body, req.ExpectedStatus())
	if err != nil {
		return envelope{}, withPath(err, req.Path)
	}
	return env, nil
}

// Exec sends req and only checks the HTTP status. OneSky answers deletes and
// updates with a bare meta object.
func (p *Pipeline) Exec(ctx context.Context, req *core.Request) error {
	_, err := p.exec.Execute(ctx, req)
	return withPath(err, req.Path)
}

// Raw sends req and returns the body unparsed.
func (p *Pipeline) Raw(ctx context.Context, req *core.Request) ([]byte, error) {
	resp, err := p.exec.Execute(ctx, req)
	if err != nil {
		return nil, withPath(err, req.Path)
	}
	return resp.Body, nil
}

// Object fetches req and converts data, which must be a JSON object.
func Object[T any](ctx context.Context, p *Pipeline, req *core.Request, conv core.Converter[T]) (T, error) {
	var zero T
	env, err := p.fetch(ctx, req)
	if err != nil {
		return zero, err
	}
	obj, err := env.data.Object("data")
	if err != nil {
		return zero, withPath(err, req.Path)
	}
	item, err := convert(conv, obj, "data")
	if err != nil {
		return zero, withPath(err, req.Path)
	}
	return item, nil
}

// List fetches req and converts every element of data, which must be a JSON
// array of objects. Order is preserved.
func List[T any](ctx context.Context, p *Pipeline, req *core.Request, conv core.Converter[T]) ([]T, error) {
	env, err := p.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	items, err := convertAll(env.data, conv)
	if err != nil {
		return nil, withPath(err, req.Path)
	}
	return items, nil
}

// Paged validates page, adds the page and per_page parameters to req and
// fetches one page. The totals come from meta.record_count and meta.page_count;
// the page number and size are the requested ones.
func Paged[T any](ctx context.Context, p *Pipeline, req *core.Request, page core.PageRequest, conv core.Converter[T]) (core.Page[T], error) {
	if err := page.Validate(); err != nil {
		return core.Page[T]{}, err
	}
	req.SetQueryParams(page.Params())

	env, err := p.fetch(ctx, req)
	if err != nil {
		return core.Page[T]{}, err
	}
	totalItems, err := requiredInt(env.meta, "meta.record_count", "record_count")
	if err != nil {
		return core.Page[T]{}, withPath(err, req.Path)
	}
	totalPages, err := requiredInt(env.meta, "meta.page_count", "page_count")
	if err != nil {
		return core.Page[T]{}, withPath(err, req.Path)
	}
	items, err := convertAll(env.data, conv)
	if err != nil {
		return core.Page[T]{}, withPath(err, req.Path)
	}
	result, err := core.NewPage(page, totalItems, totalPages, items)
	if err != nil {
		return core.Page[T]{}, withPath(core.NewMalformedResponseError("build page", err), req.Path)
	}
	return result, nil
}

func convertAll[T any](data core.Value, conv core.Converter[T]) ([]T, error) {
	elems, err := data.Array("data")
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(elems))
	for i, elem := range elems {
		name := fmt.Sprintf("data[%d]", i)
		obj, err := elem.Object(name)
		if err != nil {
			return nil, err
		}
		item, err := convert(conv, obj, name)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// convert reports converter failures as malformed responses unless the
// converter already classified them.
func convert[T any](conv core.Converter[T], obj core.Object, name string) (T, error) {
	item, err := conv(obj)
	if err == nil {
		return item, nil
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		return item, err
	}
	return item, core.NewMalformedResponseError(fmt.Sprintf("convert `%s`", name), err)
}

func withPath(err error, path string) error {
	var ce *core.Error
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = path
	}
	return err
}
