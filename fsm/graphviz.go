package fsm

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/enetx/g"
)

type edge[S comparable] struct {
	from, to S
}

func label(v any) g.String { return g.String(fmt.Sprint(v)) }

// ToDOT generates a DOT language string representation of the table for
// visualization. The current state is highlighted; states without a row are
// drawn as terminal.
func (f *FSM[S, I]) ToDOT() g.String {
	b := g.NewBuilder()

	b.WriteString("digraph FSM {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(g.Format("  label=\"policy: {}\";\n", g.String(f.policy.String())))
	b.WriteString(
		"  node [shape=circle, style=filled, fillcolor=\"#f8f8f8\", color=\"#444444\", fontname=\"Helvetica\"];\n",
	)
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	if f.table != nil {
		b.WriteString("  __start [shape=point, style=invis];\n")
		b.WriteString(g.Format("  __start -> \"{}\" [label=\" initial\"];\n\n", label(f.initial)))
	}

	grouped := make(map[edge[S]]g.Slice[g.String])

	for from, row := range f.table {
		for input, to := range row {
			key := edge[S]{from: from, to: to}
			inputs := grouped[key]
			inputs.Push(label(input))
			grouped[key] = inputs
		}
	}

	states := f.States()
	slices.SortFunc(states, func(a, b S) int { return cmp.Compare(label(a), label(b)) })

	for _, state := range states {
		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", label(state)))

		_, hasRow := f.table[state]

		switch {
		case f.ready && state == f.current:
			attrs.Push("fillcolor=\"#90ee90\"", "shape=doublecircle")
		case !hasRow:
			attrs.Push("fillcolor=\"#d3d3d3\"", "shape=doublecircle")
		}

		if _, ok := f.hooks[state]; ok {
			attrs.Push("tooltip=\"OnEnter\\nOnExit\"")
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", label(state), attrs.Join(", ")))
	}

	b.WriteByte('\n')

	edges := make([]edge[S], 0, len(grouped))
	for key := range grouped {
		edges = append(edges, key)
	}

	slices.SortFunc(edges, func(a, b edge[S]) int {
		if c := cmp.Compare(label(a.from), label(b.from)); c != 0 {
			return c
		}

		return cmp.Compare(label(a.to), label(b.to))
	})

	for _, e := range edges {
		inputs := grouped[e]
		slices.Sort(inputs)

		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\" {} \"", inputs.Join("\\n")))

		if e.from == e.to {
			attrs.Push("style=dashed")
		}

		b.WriteString(g.Format("  \"{}\" -> \"{}\" [{}];\n", label(e.from), label(e.to), attrs.Join(", ")))
	}

	b.WriteString("}\n")

	return b.String()
}
