// Package wmviz renders how ranked features land in sketch slots.
package wmviz

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/tarstars/sketched_classification/golang/wmsketch/wml"
)

var formats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
	"dot": graphviz.Format("dot"),
}

//FormatOf picks the output format from a file extension, svg when unknown.
func FormatOf(filename string) graphviz.Format {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if format, ok := formats[ext]; ok {
		return format
	}
	return graphviz.SVG
}

//DrawSlotGraph builds a bipartite graph: one ellipse per ranked feature, one box per
//slot, and an edge from each feature to its slot. Slots shared by several ranked
//features are drawn red.
func DrawSlotGraph(ranked []wml.Pair, width int, hash wml.HashFunc) (*graphviz.Graphviz, *cgraph.Graph, error) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, err
	}

	bySlot := make(map[int][]wml.Pair)
	for _, p := range ranked {
		slot := wml.SlotFor(hash, width, p.Key)
		bySlot[slot] = append(bySlot[slot], p)
	}
	slots := make([]int, 0, len(bySlot))
	for slot := range bySlot {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	for _, slot := range slots {
		slotNode, err := graph.CreateNode(fmt.Sprintf("s%d", slot))
		if err != nil {
			return nil, nil, err
		}
		slotNode.Set("label", fmt.Sprintf("slot %d", slot))
		slotNode.Set("shape", "box")
		if len(bySlot[slot]) > 1 {
			slotNode.Set("color", "red")
		}
		for _, p := range bySlot[slot] {
			featureNode, err := graph.CreateNode(fmt.Sprintf("f%d", p.Key))
			if err != nil {
				return nil, nil, err
			}
			featureNode.Set("label", fmt.Sprintf("f_%d\n%.4g", p.Key, p.Weight))
			if _, err := graph.CreateEdge("", featureNode, slotNode); err != nil {
				return nil, nil, err
			}
		}
	}
	return graphViz, graph, nil
}

//Render writes the slot graph to w.
func Render(w io.Writer, format graphviz.Format, ranked []wml.Pair, width int, hash wml.HashFunc) error {
	graphViz, graph, err := DrawSlotGraph(ranked, width, hash)
	if err != nil {
		return err
	}
	defer func() {
		_ = graph.Close()
		_ = graphViz.Close()
	}()
	return graphViz.Render(graph, format, w)
}

//RenderCollisionGraph writes the slot graph to a file, the format taken from its extension.
func RenderCollisionGraph(filename string, ranked []wml.Pair, width int, hash wml.HashFunc) error {
	graphViz, graph, err := DrawSlotGraph(ranked, width, hash)
	if err != nil {
		return err
	}
	defer func() {
		_ = graph.Close()
		_ = graphViz.Close()
	}()
	return graphViz.RenderFilename(graph, FormatOf(filename), filename)
}
