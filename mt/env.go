package mt

import "slices"

// Cell is the storage behind one variable. Cells are shared by pointer, so a
// write through any scope that captured the cell is visible to all of them.
type Cell struct {
	value    Value
	assigned bool
}

func (c *Cell) Get() (Value, bool) {
	return c.value, c.assigned
}

func (c *Cell) Set(v Value) {
	c.value = v
	c.assigned = true
}

// Env maps variable names to cells for one scope.
type Env struct {
	cells map[string]*Cell
}

func NewEnv() *Env {
	return &Env{cells: make(map[string]*Cell)}
}

func (e *Env) Lookup(name string) (*Cell, bool) {
	cell, ok := e.cells[name]
	return cell, ok
}

// Declare binds name to a fresh unassigned cell, shadowing any cell the name
// was previously bound to in this scope.
func (e *Env) Declare(name string) *Cell {
	cell := &Cell{}
	e.cells[name] = cell
	return cell
}

// Define declares name and assigns v in one step.
func (e *Env) Define(name string, v Value) *Cell {
	cell := e.Declare(name)
	cell.Set(v)
	return cell
}

// Get dereferences name.
func (e *Env) Get(name string) (Value, error) {
	cell, ok := e.cells[name]
	if !ok {
		return NewNull(), errorf(UndefinedVariable, "undefined variable %s", name)
	}
	v, assigned := cell.Get()
	if !assigned {
		return NewNull(), errorf(UnassignedVariable, "unassigned variable %s", name)
	}
	return v, nil
}

// Snapshot derives a child scope that sees every name bound right now. The
// child shares the parent's cells; names bound later on either side are not
// visible to the other.
func (e *Env) Snapshot() *Env {
	clone := &Env{cells: make(map[string]*Cell, len(e.cells))}
	for k, v := range e.cells {
		clone.cells[k] = v
	}
	return clone
}

// Select derives a child scope that sees only the captured names, each bound
// under its inner alias to the parent's cell.
func (e *Env) Select(captures []Capture) (*Env, error) {
	child := &Env{cells: make(map[string]*Cell, len(captures))}
	for _, c := range captures {
		cell, ok := e.cells[c.Outer]
		if !ok {
			return nil, errorf(UndefinedVariable, "undefined variable %s in capture list", c.Outer)
		}
		child.cells[c.Inner] = cell
	}
	return child, nil
}

func (e *Env) derive(g Group) (*Env, error) {
	if g.Annotated {
		return e.Select(g.Captures)
	}
	return e.Snapshot(), nil
}

// Names lists the bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.cells))
	for name := range e.cells {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
