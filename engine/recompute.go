package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"sheetengine/address"
	"sheetengine/value"
)

// Recompute brings every cell reachable from seeds (via the reverse
// dependency graph) up to date, in a single goroutine. It implements
// spec.md §5's dirty-set transitive closure, topological ordering
// restricted to that closure, and cycle localisation to #REF!. It
// returns every address it touched, in evaluation order, for callers
// (wsserver, notify) that need to know what to broadcast.
func (e *Engine) Recompute(seeds ...address.Address) ([]address.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(seeds) == 0 {
		seeds = e.allFormulaAddrsLocked()
	}

	dirty := e.dirtyClosureLocked(seeds)
	order, cycles := e.orderLocked(dirty)

	for _, key := range cycles {
		e.cells[key].cached = value.Error(value.ErrRef)
	}
	ctx := evalContext{e: e}
	for _, key := range order {
		e.evalOneLocked(key, ctx)
	}

	affected := make([]address.Address, 0, len(order)+len(cycles))
	for _, key := range order {
		affected = append(affected, e.addrs[key])
	}
	for _, key := range cycles {
		affected = append(affected, e.addrs[key])
	}
	return affected, nil
}

// RecomputeParallel is Recompute's concurrent counterpart: cells with no
// dependency relation between them (the same "level" of the condensation
// DAG) evaluate concurrently via an errgroup, one barrier per level. Use
// it for workbooks with wide, shallow dependency fan-out.
func (e *Engine) RecomputeParallel(ctx context.Context, seeds ...address.Address) ([]address.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(seeds) == 0 {
		seeds = e.allFormulaAddrsLocked()
	}

	dirty := e.dirtyClosureLocked(seeds)
	order, cycles := e.orderLocked(dirty)

	for _, key := range cycles {
		e.cells[key].cached = value.Error(value.ErrRef)
	}

	levels := e.levelsLocked(order, dirty)
	ectx := evalContext{e: e}
	for _, level := range levels {
		g, _ := errgroup.WithContext(ctx)
		for _, key := range level {
			key := key
			g.Go(func() error {
				e.evalOneLocked(key, ectx)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	affected := make([]address.Address, 0, len(order)+len(cycles))
	for _, key := range order {
		affected = append(affected, e.addrs[key])
	}
	for _, key := range cycles {
		affected = append(affected, e.addrs[key])
	}
	return affected, nil
}

// allFormulaAddrsLocked lists every formula cell in the store. Called when
// Recompute/RecomputeParallel are invoked with no seeds, so that a
// recompute-all pass — needed to rebuild a value store whose cached
// entries were discarded (spec.md §3) — reaches every formula rather than
// silently touching nothing. Caller must hold e.mu.
func (e *Engine) allFormulaAddrsLocked() []address.Address {
	var addrs []address.Address
	for key, c := range e.cells {
		if c.state == StateFormula {
			addrs = append(addrs, e.addrs[key])
		}
	}
	return addrs
}

func (e *Engine) evalOneLocked(key string, ctx evalContext) {
	c := e.cells[key]
	if c == nil || c.state != StateFormula {
		return
	}
	c.cached = e.evaluator.Eval(c.tree, ctx)
}

// dirtyClosureLocked computes the transitive closure of seeds over the
// reverse dependency graph (direct cell references) and the range
// subscription index (§3: "Store both as maps from address to a set of
// addresses"). Caller must hold e.mu.
func (e *Engine) dirtyClosureLocked(seeds []address.Address) map[string]bool {
	dirty := make(map[string]bool)
	var queue []string
	for _, s := range seeds {
		key := s.Key()
		if !dirty[key] {
			dirty[key] = true
			queue = append(queue, key)
			if _, ok := e.addrs[key]; !ok {
				e.addrs[key] = s
			}
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curAddr := e.addrs[cur]

		for dep := range e.reverse[cur] {
			if !dirty[dep] {
				dirty[dep] = true
				queue = append(queue, dep)
			}
		}
		for subKey, ranges := range e.rangeDeps {
			if dirty[subKey] {
				continue
			}
			for _, r := range ranges {
				if rangeContains(r, curAddr) {
					dirty[subKey] = true
					queue = append(queue, subKey)
					break
				}
			}
		}
	}
	return dirty
}

// predecessorsLocked returns the dirty keys that key's formula directly
// depends on (cell-level or range-level), restricted to other dirty
// cells. Caller must hold e.mu.
func (e *Engine) predecessorsLocked(key string, dirty map[string]bool) []string {
	var preds []string
	seen := make(map[string]bool)
	for d := range e.forward[key] {
		if dirty[d] && !seen[d] {
			seen[d] = true
			preds = append(preds, d)
		}
	}
	ranges := e.rangeDeps[key]
	if len(ranges) > 0 {
		for d := range dirty {
			if d == key || seen[d] {
				continue
			}
			addr := e.addrs[d]
			for _, r := range ranges {
				if rangeContains(r, addr) {
					seen[d] = true
					preds = append(preds, d)
					break
				}
			}
		}
	}
	return preds
}

// orderLocked groups dirty into strongly-connected components via
// Tarjan's algorithm and returns a flat evaluation order (dependencies
// before dependents) alongside the keys that belong to a genuine cycle
// (an SCC of size > 1, or a single self-referencing cell). A cell
// downstream of a cycle but not part of it is ordered normally: it reads
// the cycle member's #REF! through plain error propagation rather than
// being swept into the cycle itself (spec.md §5's cycle-localisation
// rule). Caller must hold e.mu.
func (e *Engine) orderLocked(dirty map[string]bool) (order []string, cycles []string) {
	t := &tarjan{
		preds: func(k string) []string { return e.predecessorsLocked(k, dirty) },
		index: make(map[string]int),
		low:   make(map[string]int),
		onStk: make(map[string]bool),
	}
	for key := range dirty {
		if _, visited := t.index[key]; !visited {
			t.strongConnect(key)
		}
	}
	for _, scc := range t.sccs {
		if len(scc) > 1 {
			cycles = append(cycles, scc...)
			continue
		}
		single := scc[0]
		if e.hasSelfDependency(single, dirty) {
			cycles = append(cycles, single)
			continue
		}
		order = append(order, single)
	}
	return order, cycles
}

func (e *Engine) hasSelfDependency(key string, dirty map[string]bool) bool {
	for _, p := range e.predecessorsLocked(key, dirty) {
		if p == key {
			return true
		}
	}
	return false
}

// levelsLocked assigns each ordered key a level (0-based) equal to one
// more than the maximum level among its dirty predecessors, then groups
// keys by level. Keys within a level share no dependency edge and are
// safe to evaluate concurrently.
func (e *Engine) levelsLocked(order []string, dirty map[string]bool) [][]string {
	level := make(map[string]int, len(order))
	maxLevel := 0
	for _, key := range order {
		l := 0
		for _, p := range e.predecessorsLocked(key, dirty) {
			if pl, ok := level[p]; ok && pl+1 > l {
				l = pl + 1
			}
		}
		level[key] = l
		if l > maxLevel {
			maxLevel = l
		}
	}
	levels := make([][]string, maxLevel+1)
	for _, key := range order {
		l := level[key]
		levels[l] = append(levels[l], key)
	}
	return levels
}

// tarjan is a minimal, non-recursive-safety-bounded implementation of
// Tarjan's strongly-connected-components algorithm over the predecessor
// relation supplied by preds. Because preds(u) lists the nodes u depends
// on, an edge u->v means "v must be evaluated before u"; Tarjan emits
// SCCs in an order where a component is only completed after every
// component reachable from it has been, which is exactly dependency
// order for this graph.
type tarjan struct {
	preds   func(string) []string
	index   map[string]int
	low     map[string]int
	onStk   map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStk[v] = true

	for _, w := range t.preds(v) {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.low[w] < t.low[v] {
				t.low[v] = t.low[w]
			}
		} else if t.onStk[w] {
			if t.index[w] < t.low[v] {
				t.low[v] = t.index[w]
			}
		}
	}

	if t.low[v] == t.index[v] {
		var scc []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStk[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
