package search

import (
	"context"
	"fmt"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/log"
)

// Dispatcher routes a request to the executor registered for its service type.
type Dispatcher struct {
	executors map[catalog.ServiceType]Executor
}

// NewDispatcher registers the CSW, WMS and WMTS clients on f.
func NewDispatcher(f *Fetcher) *Dispatcher {
	d := &Dispatcher{executors: make(map[catalog.ServiceType]Executor)}
	d.Register(catalog.TypeCSW, NewCSWClient(f))
	d.Register(catalog.TypeWMS, NewWMSClient(f))
	d.Register(catalog.TypeWMTS, NewWMTSClient(f))
	return d
}

// Register sets the executor for t, replacing any previous one.
func (d *Dispatcher) Register(t catalog.ServiceType, e Executor) {
	d.executors[t] = e
}

// Search implements Executor.
func (d *Dispatcher) Search(ctx context.Context, req catalog.SearchRequest) (*catalog.Result, error) {
	e, ok := d.executors[req.Type]
	if !ok {
		log.Warn(log.CatSearch, "Unsupported service type", "service", req.Service, "type", req.Type)
		return nil, &Error{Code: CodeUnsupportedType, Op: "dispatch", Err: fmt.Errorf("service type %q", req.Type)}
	}
	return e.Search(ctx, req)
}
