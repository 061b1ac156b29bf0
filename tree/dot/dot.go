/*
Package dot renders trees with Graphviz.
*/
package dot

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pbanos/arbor/tree"
)

var formats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

// Formats returns the names of the formats Render accepts.
func Formats() []string {
	return []string{"dot", "png", "svg", "jpg"}
}

/*
Format takes the name of a format (dot, png, svg or jpg) and returns the
corresponding graphviz.Format or an error if it is not supported.
*/
func Format(name string) (graphviz.Format, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unsupported format %q, use one of %s", name, strings.Join(Formats(), ", "))
	}
	return f, nil
}

/*
Draw takes a tree and returns a Graphviz instance along with a graph with one
graph node per tree node. Internal nodes are labeled with their split feature
and leaves with their prediction; all of them but the root also show the value
routing samples to them. The caller must close both when done.
*/
func Draw(t *tree.Tree) (*graphviz.Graphviz, *cgraph.Graph, error) {
	root := t.Root()
	if root == nil {
		return nil, nil, tree.ErrNotBuilt
	}
	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		gv.Close()
		return nil, nil, err
	}
	err = drawNode(graph, t, root, nil, nil)
	if err != nil {
		graph.Close()
		gv.Close()
		return nil, nil, err
	}
	return gv, graph, nil
}

func drawNode(g *cgraph.Graph, t *tree.Tree, n, parent *tree.Node, parentNode *cgraph.Node) error {
	current, err := g.CreateNode(fmt.Sprint(n.ID))
	if err != nil {
		return fmt.Errorf("drawing node %d: %v", n.ID, err)
	}
	if parentNode != nil {
		_, err = g.CreateEdge("", parentNode, current)
		if err != nil {
			return fmt.Errorf("drawing edge to node %d: %v", n.ID, err)
		}
	}
	current.Set("label", nodeLabel(n, parent))
	if n.IsLeaf() {
		current.Set("shape", "box")
		return nil
	}
	for _, c := range t.Children(n) {
		err = drawNode(g, t, c, n, current)
		if err != nil {
			return err
		}
	}
	return nil
}

func nodeLabel(n, parent *tree.Node) string {
	var lines []string
	if parent != nil {
		lines = append(lines, n.Criterion(parent).String())
	}
	if n.IsLeaf() {
		lines = append(lines, fmt.Sprintf("predict %v", n.Label))
	} else {
		lines = append(lines, fmt.Sprintf("split on %s", n.SplitFeature.Name()))
	}
	return strings.Join(lines, "\n")
}

/*
Render draws the tree and writes it onto w in the given format.
*/
func Render(t *tree.Tree, format graphviz.Format, w io.Writer) error {
	gv, graph, err := Draw(t)
	if err != nil {
		return err
	}
	defer gv.Close()
	defer graph.Close()
	return gv.Render(graph, format, w)
}
