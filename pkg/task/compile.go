package task

import (
	"fmt"
	"sort"

	"github.com/aretw0/thicket/pkg/domain"
)

// Compile validates doc and builds the indexed Task.
// All validation problems are returned together as an *AggregateError.
func Compile(doc *Document) (*Task, error) {
	c := &compiler{
		doc:    doc,
		varIdx: make(map[string]int),
		valIdx: make([]map[string]int, 0, len(doc.Variables)),
	}
	t := c.compile()
	if len(c.errs) > 0 {
		return nil, &AggregateError{Errors: c.errs}
	}
	return t, nil
}

type compiler struct {
	doc    *Document
	varIdx map[string]int
	valIdx []map[string]int
	errs   []error
}

func (c *compiler) fail(path, format string, args ...any) {
	c.errs = append(c.errs, &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)})
}

func (c *compiler) compile() *Task {
	t := &Task{name: c.doc.Name, unitCost: true}
	if t.name == "" {
		t.name = "task"
	}

	for i, vd := range c.doc.Variables {
		path := fmt.Sprintf("variables[%d]", i)
		if vd.Name == "" {
			c.fail(path, "name is required")
		} else if _, dup := c.varIdx[vd.Name]; dup {
			c.fail(path, "duplicate variable %q", vd.Name)
		}
		if len(vd.Values) == 0 {
			c.fail(path, "variable %q has an empty domain", vd.Name)
		}
		vals := make(map[string]int, len(vd.Values))
		for j, name := range vd.Values {
			if _, dup := vals[name]; dup {
				c.fail(path, "duplicate value %q", name)
			}
			vals[name] = j
		}
		c.varIdx[vd.Name] = i
		c.valIdx = append(c.valIdx, vals)

		v := Variable{Name: vd.Name, Values: vd.Values, Derived: vd.Derived, Layer: vd.Layer}
		if vd.Derived {
			if vd.Layer < 0 {
				c.fail(path, "axiom layer must be non-negative")
			}
			if vd.Default != "" {
				if d, ok := vals[vd.Default]; ok {
					v.Default = d
				} else {
					c.fail(path, "unknown default value %q", vd.Default)
				}
			}
			t.derived = append(t.derived, i)
		}
		t.variables = append(t.variables, v)
	}
	if len(c.errs) > 0 {
		return nil
	}

	t.init = make([]int, len(t.variables))
	for i, v := range t.variables {
		if v.Derived {
			t.init[i] = v.Default
			continue
		}
		val, ok := c.doc.Init[v.Name]
		if !ok {
			c.fail("init", "missing value for variable %q", v.Name)
			continue
		}
		if idx, ok := c.valIdx[i][val]; ok {
			t.init[i] = idx
		} else {
			c.fail("init", "unknown value %q for variable %q", val, v.Name)
		}
	}
	for name := range c.doc.Init {
		if i, ok := c.varIdx[name]; !ok {
			c.fail("init", "unknown variable %q", name)
		} else if t.variables[i].Derived {
			c.fail("init", "derived variable %q cannot be initialized", name)
		}
	}

	t.goal = c.facts("goal", c.doc.Goal)

	for i, od := range c.doc.Operators {
		path := fmt.Sprintf("operators[%d]", i)
		op := Operator{Name: od.Name, Cost: 1}
		if op.Name == "" {
			c.fail(path, "name is required")
		}
		if od.Cost != nil {
			op.Cost = *od.Cost
		}
		if op.Cost < 0 {
			c.fail(path, "cost must be non-negative, got %d", op.Cost)
		}
		if op.Cost != 1 {
			t.unitCost = false
		}
		op.Precondition = c.facts(path+".pre", od.Pre)
		if len(od.Effects) == 0 {
			c.fail(path, "operator %q has no effects", od.Name)
		}
		for j, ed := range od.Effects {
			epath := fmt.Sprintf("%s.eff[%d]", path, j)
			conds := c.facts(epath+".when", ed.When)
			if len(ed.Set) == 0 {
				c.fail(epath, "effect sets nothing")
			}
			for _, f := range c.facts(epath+".set", ed.Set) {
				if t.variables[f.Var].Derived {
					c.fail(epath, "operators cannot set derived variable %q", t.variables[f.Var].Name)
				}
				op.Effects = append(op.Effects, Effect{Conditions: conds, Fact: f})
			}
		}
		t.operators = append(t.operators, op)
	}

	for i, ad := range c.doc.Axioms {
		path := fmt.Sprintf("axioms[%d]", i)
		heads := c.facts(path+".set", ad.Set)
		if len(heads) != 1 {
			c.fail(path, "axiom must set exactly one fact")
			continue
		}
		head := heads[0]
		hv := t.variables[head.Var]
		if !hv.Derived {
			c.fail(path, "axiom head %q is not a derived variable", hv.Name)
			continue
		}
		t.axioms = append(t.axioms, Axiom{
			Layer:      hv.Layer,
			Conditions: c.facts(path+".when", ad.When),
			Head:       head,
		})
	}
	if len(c.errs) > 0 {
		return nil
	}

	t.layers = groupLayers(t.axioms)
	t.EvaluateAxioms(t.init)
	return t
}

// facts resolves a name map into facts sorted by variable index.
func (c *compiler) facts(path string, m map[string]string) []domain.Fact {
	facts := make([]domain.Fact, 0, len(m))
	for name, val := range m {
		v, ok := c.varIdx[name]
		if !ok {
			c.fail(path, "unknown variable %q", name)
			continue
		}
		idx, ok := c.valIdx[v][val]
		if !ok {
			c.fail(path, "unknown value %q for variable %q", val, name)
			continue
		}
		facts = append(facts, domain.Fact{Var: v, Value: idx})
	}
	sort.Slice(facts, func(i, j int) bool { return facts[i].Var < facts[j].Var })
	return facts
}

func groupLayers(axioms []Axiom) [][]int {
	byLayer := make(map[int][]int)
	var layers []int
	for i, ax := range axioms {
		if _, ok := byLayer[ax.Layer]; !ok {
			layers = append(layers, ax.Layer)
		}
		byLayer[ax.Layer] = append(byLayer[ax.Layer], i)
	}
	sort.Ints(layers)
	out := make([][]int, 0, len(layers))
	for _, l := range layers {
		out = append(out, byLayer[l])
	}
	return out
}
