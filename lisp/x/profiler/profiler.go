// Copyright © 2018 The ELPS authors

// Package profiler implements lisp.Profiler to record the calls made by an
// interpreter, either as a callgrind file or as trace spans.
package profiler

import (
	"errors"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/parser/token"
)

// SkipFilter returns true for functions which should not be recorded.
type SkipFilter func(fun *lisp.LVal) bool

// FunLabeler provides an alternative name for a function in the profile.
// Returning an empty string keeps the default name.
type FunLabeler func(fun *lisp.LVal) string

// Option configures a profiler.
type Option func(*profiler)

// WithSkipFilter sets a filter that excludes functions from the profile.
func WithSkipFilter(skip SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skip
	}
}

// WithFunLabeler sets the labeler used to name recorded functions.
func WithFunLabeler(label FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = label
	}
}

// SkipBuiltins is a SkipFilter which records only functions defined in lisp.
func SkipBuiltins(fun *lisp.LVal) bool {
	return fun.IsBuiltin()
}

// profiler holds the state shared by all implementations.
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) Enable() error {
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) SetFile(filename string) error {
	return errors.New("profiler does not write to a file")
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) skipTrace(fun *lisp.LVal) bool {
	return !p.enabled || fun.Type != lisp.LFun || p.skipFilter != nil && p.skipFilter(fun)
}

// funName returns the label for fun and the name it was defined with.
func (p *profiler) funName(fun *lisp.LVal) (label string, name string) {
	name = fun.FunData().Name
	if name == "" {
		name = fun.FID()
	}
	label = name
	if p.funLabeler != nil {
		if l := p.funLabeler(fun); l != "" {
			label = l
		}
	}
	return label, name
}

// sourceLoc returns where fun was defined.  Builtins have no location.
func sourceLoc(fun *lisp.LVal) *token.Location {
	if fun.IsBuiltin() {
		return nil
	}
	formals := fun.Formals()
	for _, loc := range []*token.Location{formals.Source, formals.Car().Source, fun.Body().Car().Source} {
		if loc != nil {
			return loc
		}
	}
	return nil
}
