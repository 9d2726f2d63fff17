package engine

import "golang.org/x/exp/maps"

// AddEdge inserts a precedent -> dependent edge: to becomes a dependent of
// from, and from becomes a precedent of to.
func (g *Grid) AddEdge(from, to CellReference) {
	g.At(from).Dependents[to] = struct{}{}
	g.At(to).Precedents[from] = struct{}{}
}

// RemoveEdge removes both sides of a precedent -> dependent edge.
func (g *Grid) RemoveEdge(from, to CellReference) {
	delete(g.At(from).Dependents, to)
	delete(g.At(to).Precedents, from)
}

// ClearPrecedents detaches c from every one of its current precedents and
// empties c's precedent set.
func (g *Grid) ClearPrecedents(c CellReference) {
	cell := g.At(c)
	for p := range cell.Precedents {
		g.RemoveEdge(p, c)
	}
	cell.Precedents = make(map[CellReference]struct{})
}

// ExtractPrecedents flattens an expression tree into the deduplicated set
// of CellReferences it reads, with a range contributing every cell in its
// rectangle.
func ExtractPrecedents(expr Expression) []CellReference {
	seen := make(map[CellReference]struct{})
	for _, ref := range expr.Precedents() {
		seen[ref] = struct{}{}
	}
	return maps.Keys(seen)
}

// HasCycle performs a depth-first traversal of the dependents edge set
// rooted at start, returning true if start is reachable from itself along
// a forward path. Only start's newly-added outgoing precedent edges can
// introduce a cycle, so callers only ever need to check the cell they
// just assigned.
func (g *Grid) HasCycle(start CellReference) bool {
	visited := make(map[CellReference]struct{})
	onPath := make(map[CellReference]struct{})

	var dfs func(CellReference) bool
	dfs = func(node CellReference) bool {
		if _, ok := onPath[node]; ok {
			return true
		}
		if _, ok := visited[node]; ok {
			return false
		}
		visited[node] = struct{}{}
		onPath[node] = struct{}{}
		for dep := range g.At(node).Dependents {
			if dfs(dep) {
				return true
			}
		}
		delete(onPath, node)
		return false
	}
	return dfs(start)
}
