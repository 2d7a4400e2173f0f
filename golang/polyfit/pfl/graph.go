package pfl

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var graphvizFormat = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
	"dot": graphviz.XDOT,
}

//termDescription returns the label of the node of the i-th term for graph rendering
func termDescription(i int, coefficient float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("theta_%d = %.6g\n", i, coefficient))
	switch i {
	case 0:
		sb.WriteString("* 1")
	case 1:
		sb.WriteString("* x")
	default:
		sb.WriteString(fmt.Sprintf("* x^%d", i))
	}
	return sb.String()
}

//DrawGraph builds the expression graph of the polynomial theta: the input node x feeds one node
//per term and every term feeds the sum node. The caller closes the returned objects.
func DrawGraph(theta *mat.VecDense) (*graphviz.Graphviz, *cgraph.Graph, error) {
	k := Length(theta)
	if k == 0 {
		return nil, nil, errors.Wrap(ErrInvalidInput, "polynomial without coefficients")
	}

	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, errors.Wrap(err, "create graph")
	}

	input, err := graph.CreateNode("x")
	if err != nil {
		return nil, nil, errors.Wrap(err, "create input node")
	}
	input.Set("shape", "circle")

	sum, err := graph.CreateNode("sum")
	if err != nil {
		return nil, nil, errors.Wrap(err, "create sum node")
	}
	sum.Set("label", fmt.Sprintf("yhat = sum of %d terms", k))
	sum.Set("shape", "box")

	for i := 0; i < k; i++ {
		term, err := graph.CreateNode(fmt.Sprint("term_", i))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "create node of term %d", i)
		}
		term.Set("label", termDescription(i, theta.AtVec(i)))
		if i > 0 {
			if _, err := graph.CreateEdge("", input, term); err != nil {
				return nil, nil, errors.Wrapf(err, "connect input to term %d", i)
			}
		}
		if _, err := graph.CreateEdge("", term, sum); err != nil {
			return nil, nil, errors.Wrapf(err, "connect term %d to sum", i)
		}
	}

	return graphViz, graph, nil
}

//RenderGraph draws the polynomial theta into filename. figureType is one of png, svg, jpg or dot.
func RenderGraph(theta *mat.VecDense, figureType, filename string) error {
	format, ok := graphvizFormat[figureType]
	if !ok {
		return errors.Wrapf(ErrInvalidConfig, "unknown figure type %q", figureType)
	}
	graphViz, graph, err := DrawGraph(theta)
	if err != nil {
		return err
	}
	defer func() {
		_ = graph.Close()
		_ = graphViz.Close()
	}()

	return errors.Wrapf(graphViz.RenderFilename(graph, format, filename), "render %s", filename)
}
