package router

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vyrodovalexey/routem/internal/config"
	"github.com/vyrodovalexey/routem/internal/observability"
	"github.com/vyrodovalexey/routem/internal/route"
	"github.com/vyrodovalexey/routem/internal/util"
)

// Router is an insertion-ordered route set. Find returns the first route
// whose pattern matches; routes are never reordered or scored.
type Router struct {
	routes  []*route.Route
	byName  map[string]*route.Route
	base    *route.Registry
	parser  *route.Parser
	logger  observability.Logger
	metrics *Metrics
	mu      sync.RWMutex
}

// MatchResult contains the result of a successful lookup.
type MatchResult struct {
	Route *route.Route

	// Values holds the parameter components in pattern order.
	Values []string

	// Params labels each value with its parameter.
	Params []route.ParamValue
}

// Param returns the value of the first parameter called name.
func (m *MatchResult) Param(name string) (string, bool) {
	for _, p := range m.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Option is a functional option for configuring the router.
type Option func(*Router)

// WithRegistry sets the base registry that templates compile against. The
// router keeps its own copy. A nil registry leaves the default in place.
func WithRegistry(reg *route.Registry) Option {
	return func(r *Router) {
		if reg == nil {
			return
		}
		r.base = reg.Clone()
	}
}

// WithLogger sets the logger for the router.
func WithLogger(logger observability.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics the router records into.
func WithMetrics(m *Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// New creates a new router.
func New(opts ...Option) *Router {
	r := &Router{
		routes: make([]*route.Route, 0),
		byName: make(map[string]*route.Route),
		logger: observability.L(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.base == nil {
		r.base = route.DefaultRegistry()
	}
	r.parser = route.NewParser(r.base)

	return r
}

// Registry returns the registry used by Compile.
func (r *Router) Registry() *route.Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parser.Registry()
}

// RegisterType adds or replaces a parameter type for subsequent Compile
// calls. A later LoadConfig discards it unless it was in the base registry.
func (r *Router) RegisterType(typename string, t route.ParamType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parser.RegisterType(typename, t)
}

// Add appends a compiled route. Names need not be unique; Get and URL
// resolve to the earliest route with a given name.
func (r *Router) Add(rt *route.Route) {
	if rt == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.add(rt)
	r.metrics.setRoutes(len(r.routes))
}

func (r *Router) add(rt *route.Route) {
	r.routes = append(r.routes, rt)
	if _, exists := r.byName[rt.Name()]; !exists {
		r.byName[rt.Name()] = rt
	}
}

// Compile compiles template with the router's registry and appends the
// resulting route.
func (r *Router) Compile(name, template string) (*route.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, err := r.parser.Compile(name, template)
	if err != nil {
		r.recordCompileError(err)
		r.logger.Warn("rejected route template",
			observability.String("route", name),
			observability.String("template", template),
			observability.Error(err),
		)
		return nil, err
	}

	r.add(rt)
	r.metrics.setRoutes(len(r.routes))

	r.logger.Debug("route added",
		observability.String("route", name),
		observability.String("pattern", rt.Pattern()),
		observability.Int("position", len(r.routes)-1),
	)

	return rt, nil
}

func (r *Router) recordCompileError(err error) {
	var pe *route.ParseError
	if errors.As(err, &pe) {
		r.metrics.recordCompileError(pe.Kind)
	}
}

// Find returns the first route, in insertion order, that matches path.
func (r *Router) Find(path string) (*route.Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rt := range r.routes {
		if rt.Matches(path) {
			r.metrics.recordLookup(rt)
			return rt, true
		}
	}

	r.metrics.recordLookup(nil)
	return nil, false
}

// Match finds the first matching route and extracts its parameter values.
func (r *Router) Match(path string) (*MatchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rt := range r.routes {
		params, ok := rt.Params(path)
		if !ok {
			continue
		}
		values := make([]string, len(params))
		for i, p := range params {
			values[i] = p.Value
		}
		r.metrics.recordLookup(rt)
		return &MatchResult{Route: rt, Values: values, Params: params}, nil
	}

	r.metrics.recordLookup(nil)
	return nil, util.NewRouteNotFoundError(path)
}

// Get returns the earliest route with the given name.
func (r *Router) Get(name string) (*route.Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, exists := r.byName[name]
	return rt, exists
}

// URL fills the named route with values.
func (r *Router) URL(name string, values ...string) (string, error) {
	rt, ok := r.Get(name)
	if !ok {
		return "", util.NewRouteNameNotFoundError(name)
	}

	path, ok := rt.Fill(values)
	if !ok {
		return "", util.NewArityError(name, rt.NumParams(), len(values))
	}
	return path, nil
}

// Routes returns all routes in insertion order.
func (r *Router) Routes() []*route.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]*route.Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// Len returns the number of routes.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Clear removes all routes. Registered types are kept.
func (r *Router) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes = make([]*route.Route, 0)
	r.byName = make(map[string]*route.Route)
	r.metrics.setRoutes(0)
}

// LoadConfig replaces the route set and the table-declared types with the
// contents of table. On error the router is left unchanged.
func (r *Router) LoadConfig(table *config.RouteTable) error {
	err := r.loadConfig(table)
	r.metrics.RecordReload(err)
	if err != nil {
		r.logger.Error("failed to load route table", observability.Error(err))
	}
	return err
}

func (r *Router) loadConfig(table *config.RouteTable) error {
	if table == nil {
		return util.NewConfigError("", "route table is nil")
	}

	r.mu.RLock()
	base := r.base
	r.mu.RUnlock()

	reg, err := config.BuildRegistry(table, base)
	if err != nil {
		return err
	}

	parser := route.NewParser(reg)
	routes := make([]*route.Route, 0, len(table.Routes))
	byName := make(map[string]*route.Route, len(table.Routes))

	for i := range table.Routes {
		rc := &table.Routes[i]
		rt, err := parser.Compile(rc.Name, rc.Pattern)
		if err != nil {
			r.recordCompileError(err)
			return util.NewConfigErrorWithCause(fmt.Sprintf("routes[%d]", i), err.Error(), err)
		}
		routes = append(routes, rt)
		if _, exists := byName[rt.Name()]; !exists {
			byName[rt.Name()] = rt
		}
	}

	r.mu.Lock()
	r.parser = parser
	r.routes = routes
	r.byName = byName
	r.metrics.setRoutes(len(routes))
	r.mu.Unlock()

	r.logger.Info("route table loaded",
		observability.Int("routes", len(routes)),
		observability.Int("param_types", len(table.ParamTypes)),
	)

	return nil
}
