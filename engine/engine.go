// Package engine is the query evaluator entry point: it optimizes a
// logicalplan.Plan, compiles it to a physicalplan.BindingIterator tree,
// drives that iterator to completion under a context, and assembles the
// SELECT/ASK/CONSTRUCT result shapes, wrapping the whole pass in an
// otel span the way a production query engine instruments its hot path.
// The SPARQL surface-syntax parser is deliberately not part of this
// package: callers hand Engine an already-built logicalplan.Plan, the
// algebra an external parser (or a hand-built test plan) produces.
package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rdfquad/rdfquad/internal/errs"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/optimizer"
	"github.com/rdfquad/rdfquad/internal/physicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// Engine evaluates logical plans against one quad store.
type Engine struct {
	store *quadstore.Store
	opt   *optimizer.Optimizer
	opts  *Options
}

// New creates an Engine over store.
func New(store *quadstore.Store, options ...Option) *Engine {
	opts := defaultOptions()
	for _, o := range options {
		o(opts)
	}
	return &Engine{store: store, opt: optimizer.New(opts.stats), opts: opts}
}

// Explain optimizes plan without executing it, returning a
// QueryExplanation describing the optimized logical plan. Intended for
// EXPLAIN-style tooling and tests.
func (e *Engine) Explain(plan logicalplan.Plan) *QueryExplanation {
	optimized := e.opt.Optimize(plan)
	return newExplanation(optimized)
}

// Select executes plan and collects every solution binding for
// Variables, applying no further projection beyond what the plan's own
// Project node already encodes (Variables is informational — it names
// the SELECT list the caller's query compiled from).
func (e *Engine) Select(ctx context.Context, plan logicalplan.Plan, variables []string) (*Solutions, error) {
	ctx, span := e.opts.tracer.Start(ctx, "engine.Select")
	defer span.End()
	span.SetAttributes(attribute.Int("plan.variables", len(variables)))

	it, err := e.compile(ctx, plan)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var bindings []map[string]rdf.Term
	for {
		if err := ctx.Err(); err != nil {
			return nil, &errs.CancellationError{Err: err}
		}
		ok, err := it.Next()
		if err != nil {
			return nil, &errs.PlanError{Err: err}
		}
		if !ok {
			break
		}
		row := it.Binding()
		out := make(map[string]rdf.Term, len(row))
		for k, v := range row {
			out[k] = v
		}
		bindings = append(bindings, out)
	}

	e.opts.logger.Debug("select complete", "rows", len(bindings))
	return &Solutions{Variables: variables, Bindings: bindings}, nil
}

// Ask executes plan and reports whether it has at least one solution.
func (e *Engine) Ask(ctx context.Context, plan logicalplan.Plan) (*Boolean, error) {
	ctx, span := e.opts.tracer.Start(ctx, "engine.Ask")
	defer span.End()

	it, err := e.compile(ctx, plan)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	ok, err := it.Next()
	if err != nil {
		return nil, &errs.PlanError{Err: err}
	}
	return &Boolean{Value: ok}, nil
}

// ConstructTemplate is one triple pattern of a CONSTRUCT query's
// template, with Subject/Predicate/Object either a fixed rdf.Term or a
// variable name to be substituted from each solution binding.
type ConstructTemplate struct {
	Subject, Predicate, Object TemplateTerm
}

// TemplateTerm is either a constant rdf.Term or a variable reference.
type TemplateTerm struct {
	Term rdf.Term
	Var  string
}

// Construct executes plan and instantiates template against every
// solution, dropping any instantiation that would reference an unbound
// variable (so e.g. OPTIONAL-sourced variables silently drop just that
// triple from the output, not the whole query).
func (e *Engine) Construct(ctx context.Context, plan logicalplan.Plan, template []ConstructTemplate) (*Graph, error) {
	ctx, span := e.opts.tracer.Start(ctx, "engine.Construct")
	defer span.End()

	it, err := e.compile(ctx, plan)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	seen := make(map[string]bool)
	var triples []*rdf.Triple
	for {
		if err := ctx.Err(); err != nil {
			return nil, &errs.CancellationError{Err: err}
		}
		ok, err := it.Next()
		if err != nil {
			return nil, &errs.PlanError{Err: err}
		}
		if !ok {
			break
		}
		binding := it.Binding()
		for _, tpl := range template {
			s, ok1 := resolve(tpl.Subject, binding)
			p, ok2 := resolve(tpl.Predicate, binding)
			o, ok3 := resolve(tpl.Object, binding)
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			triple := &rdf.Triple{Subject: s, Predicate: p, Object: o}
			key := s.String() + "\x1f" + p.String() + "\x1f" + o.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			triples = append(triples, triple)
		}
	}
	return &Graph{Triples: triples}, nil
}

func resolve(t TemplateTerm, binding map[string]rdf.Term) (rdf.Term, bool) {
	if t.Var == "" {
		return t.Term, true
	}
	v, ok := binding[t.Var]
	return v, ok
}

// compile optimizes plan and builds its physical iterator.
func (e *Engine) compile(ctx context.Context, plan logicalplan.Plan) (physicalplan.BindingIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, &errs.CancellationError{Err: err}
	}
	optimized := e.opt.Optimize(plan)
	it, err := physicalplan.Build(optimized, e.store)
	if err != nil {
		return nil, &errs.PlanError{Err: err}
	}
	return it, nil
}
