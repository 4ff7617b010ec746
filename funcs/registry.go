// Package funcs is the function library (spec.md §4.3, component C3): a
// registry of the built-in functions' semantic implementations, plus the
// coercion and error-propagation rules every implementation shares.
// Implementations never perform I/O or consult the cell store directly —
// they receive already-evaluated arguments, per the component contract.
package funcs

import (
	"math/rand/v2"
	"strings"
	"time"

	"sheetengine/value"
)

// Fn is the signature every built-in function implements.
type Fn func(args []value.Value) value.Value

// Clock isolates the wall-clock read NOW/TODAY perform so tests can inject
// a fixed time (spec.md §5: "isolatable for test-time injection").
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RandomSource isolates RAND/RANDBETWEEN for deterministic tests.
type RandomSource interface {
	Float64() float64
}

type systemRandom struct{}

func (systemRandom) Float64() float64 { return rand.Float64() }

func newDefaultRandom() RandomSource { return systemRandom{} }

// Registry holds the uppercased-name -> implementation mapping. It is a
// constant table per call-site: construct one per Evaluator rather than
// mutating a shared global (spec.md §9's "no process-global mutable
// state" design note).
type Registry struct {
	fns   map[string]Fn
	clock Clock
	rng   RandomSource
}

// NewRegistry builds the default registry with the system wall clock and
// a non-deterministic random source.
func NewRegistry() *Registry {
	return NewRegistryWithClock(systemClock{}, newDefaultRandom())
}

// NewRegistryWithClock builds a registry with injectable time/randomness,
// for deterministic unit tests of NOW/TODAY/RAND/RANDBETWEEN.
func NewRegistryWithClock(clock Clock, rng RandomSource) *Registry {
	r := &Registry{fns: make(map[string]Fn), clock: clock, rng: rng}
	r.registerAggregate()
	r.registerMath()
	r.registerLogical()
	r.registerText()
	r.registerDate()
	r.registerConditional()
	r.registerLookup()
	return r
}

// Call dispatches by uppercased function name. An unknown name returns
// #NAME? per spec.md §4.4's dispatch rule.
func (r *Registry) Call(name string, args []value.Value) value.Value {
	fn, ok := r.fns[strings.ToUpper(name)]
	if !ok {
		return value.Error(value.ErrName)
	}
	return fn(args)
}

// Has reports whether name is a registered function.
func (r *Registry) Has(name string) bool {
	_, ok := r.fns[strings.ToUpper(name)]
	return ok
}

func (r *Registry) register(name string, fn Fn) {
	r.fns[name] = fn
}

// errorPropagating wraps fn so that any error-valued argument (including
// inside flattened arrays) short-circuits the call, per spec.md §4.3's
// error propagation rule. Functions that must see errors (IFERROR-style
// suppression) are registered directly instead of through this wrapper.
func errorPropagating(fn Fn) Fn {
	return func(args []value.Value) value.Value {
		if errv, ok := value.FirstError(args...); ok {
			return errv
		}
		return fn(args)
	}
}
