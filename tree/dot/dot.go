/*
Package dot draws trees as images through graphviz.

Branches are drawn as ellipses labeled with their split condition
and leaves as boxes labeled with their prediction. The edge to a
branch's left child is labeled yes and the edge to its right child
no, matching the descent a prediction follows.
*/
package dot

import (
	"fmt"
	"io"
	"os"

	"github.com/alexwalshml/dendro/tree"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

var formats = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

/*
Render takes a pointer to a tree.Tree, an image format and an
io.Writer and draws the given tree onto the io.Writer in the given
format. The supported formats are png, svg and jpg. An error is
returned if the format is not one of them or the tree cannot be
drawn.
*/
func Render(t *tree.Tree, format string, w io.Writer) error {
	gvFormat, ok := formats[format]
	if !ok {
		return fmt.Errorf("rendering tree: unsupported format %q: must be png, svg or jpg", format)
	}
	if t == nil || t.Root == nil {
		return fmt.Errorf("rendering tree: tree has no nodes")
	}
	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("rendering tree: %v", err)
	}
	defer func() {
		graph.Close()
		gv.Close()
	}()
	var id int
	if err = drawSubtree(graph, t, t.Root, &id, nil, ""); err != nil {
		return fmt.Errorf("rendering tree: %v", err)
	}
	if err = gv.Render(graph, gvFormat, w); err != nil {
		return fmt.Errorf("rendering tree: %v", err)
	}
	return nil
}

/*
RenderFile takes a pointer to a tree.Tree, an image format and a
filepath string and draws the tree with Render onto the file the
filepath points to, creating or truncating it.
*/
func RenderFile(t *tree.Tree, format string, filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("rendering tree to %s: %v", filepath, err)
	}
	defer f.Close()
	err = Render(t, format, f)
	if err != nil {
		return fmt.Errorf("rendering tree to %s: %v", filepath, err)
	}
	return nil
}

func drawSubtree(graph *cgraph.Graph, t *tree.Tree, n tree.Node, id *int, parent *cgraph.Node, edgeLabel string) error {
	current, err := graph.CreateNode(fmt.Sprintf("n%d", *id))
	if err != nil {
		return err
	}
	*id++
	if parent != nil {
		edge, err := graph.CreateEdge("", parent, current)
		if err != nil {
			return err
		}
		edge.SetLabel(edgeLabel)
	}
	switch node := n.(type) {
	case *tree.Branch:
		current.Set("label", branchLabel(t, node))
		if err = drawSubtree(graph, t, node.Left, id, current, "yes"); err != nil {
			return err
		}
		return drawSubtree(graph, t, node.Right, id, current, "no")
	case *tree.Leaf:
		current.Set("label", fmt.Sprintf("%v", node.Prediction))
		current.Set("shape", "box")
		return nil
	}
	return fmt.Errorf("tree holds a node that is neither a branch nor a leaf")
}

func branchLabel(t *tree.Tree, b *tree.Branch) string {
	name := fmt.Sprintf("feature %d", b.Feature)
	if b.Feature >= 0 && b.Feature < len(t.Features) {
		name = t.Features[b.Feature].Name()
	}
	return fmt.Sprintf("%s < %v", name, b.Threshold)
}
