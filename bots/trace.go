package bots

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

const graphName = "search"

// Dot renders the root of a search as a Graphviz digraph: one node for the
// position and one per root move, the chosen move highlighted.
func (r Result) Dot() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}

	rootLabel := fmt.Sprintf("%s\ndepth %d, %d nodes, %d cutoffs", r.FEN, r.Depth, r.Stats.Nodes, r.Stats.Cutoffs)
	if err := g.AddNode(graphName, "root", map[string]string{
		"label": strconv.Quote(rootLabel),
		"shape": "box",
	}); err != nil {
		return "", errors.WithStack(err)
	}

	for i, line := range r.Lines {
		name := fmt.Sprintf("m%d", i)
		attrs := map[string]string{
			"label": strconv.Quote(fmt.Sprintf("%s\n%+.2f\n%d nodes", line.Move, line.Score, line.Nodes)),
		}
		if line.Move == r.Move {
			attrs["color"] = "red"
			attrs["penwidth"] = "2"
		}
		if err := g.AddNode(graphName, name, attrs); err != nil {
			return "", errors.WithStack(err)
		}
		if err := g.AddEdge("root", name, true, nil); err != nil {
			return "", errors.WithStack(err)
		}
	}
	return g.String(), nil
}
