package decision

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

const dotGraphName = "DRG"

// ExportDOT renders the decision requirements graph as a Graphviz digraph.
// Edges run from a required decision to the decision requiring it, the
// direction information flows in. References to decisions missing from the
// graph are drawn as dashed ellipses.
func ExportDOT(g *Graph) (string, error) {
	if g == nil {
		return "", fmt.Errorf("decision graph is nil")
	}

	out := gographviz.NewGraph()
	if err := out.SetName(dotGraphName); err != nil {
		return "", err
	}
	if err := out.SetDir(true); err != nil {
		return "", err
	}

	ids := make([]string, 0, len(g.Decisions))
	for id := range g.Decisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		d := g.Decisions[id]
		label := d.Name
		if label == "" {
			label = id
		}
		attrs := map[string]string{
			"shape": "box",
			"label": strconv.Quote(fmt.Sprintf("%s\n[%s]", label, d.Table.HitPolicy)),
		}
		if err := out.AddNode(dotGraphName, strconv.Quote(id), attrs); err != nil {
			return "", fmt.Errorf("failed to add node %q: %w", id, err)
		}
	}

	for _, id := range ids {
		for _, req := range g.Decisions[id].RequiredDecisions {
			src := strconv.Quote(req)
			if _, known := g.Decisions[req]; !known && !out.IsNode(src) {
				if err := out.AddNode(dotGraphName, src, map[string]string{"shape": "ellipse", "style": "dashed"}); err != nil {
					return "", fmt.Errorf("failed to add node %q: %w", req, err)
				}
			}
			if err := out.AddEdge(src, strconv.Quote(id), true, nil); err != nil {
				return "", fmt.Errorf("failed to add edge %s -> %s: %w", req, id, err)
			}
		}
	}

	return out.String(), nil
}
