/*
Package json serializes trees to JSON and deserializes them back.

A tree is written as a single self-contained JSON object: its
task, the predictor features it applies to samples, the target
feature it predicts and a flat array with its nodes in preorder,
each branch immediately followed by its left and then its right
subtree. Deserializing needs no other information, so a file
written by this package is everything another process needs to
predict with the tree.
*/
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexwalshml/dendro/feature"
	fjson "github.com/alexwalshml/dendro/feature/json"
	"github.com/alexwalshml/dendro/tree"
)

/*
WriteTree takes a pointer to a tree.Tree and an io.Writer and
serializes the given tree as JSON onto the io.Writer. Nodes are
written in preorder, one at a time, so the whole tree is never
buffered. An error is returned if the tree cannot be traversed or
the io.Writer cannot be written to.
*/
func WriteTree(t *tree.Tree, w io.Writer) error {
	if err := marshalTreeHeader(t, w); err != nil {
		return err
	}
	var i int
	err := t.Traverse(func(n tree.Node, depth int, parent tree.Node) error {
		if i != 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		i++
		jn, err := encodeNode(n)
		if err != nil {
			return err
		}
		_, err = w.Write(jn)
		return err
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("]}"))
	return err
}

/*
ReadTree takes an io.Reader and deserializes a tree.Tree from the
JSON content WriteTree writes. An error is returned if the content
cannot be parsed or does not describe a complete tree.
*/
func ReadTree(r io.Reader) (*tree.Tree, error) {
	jt := &struct {
		Task     string            `json:"task"`
		Features []json.RawMessage `json:"features"`
		Target   json.RawMessage   `json:"target"`
		Nodes    []*jsonNode       `json:"nodes"`
	}{}
	if err := json.NewDecoder(r).Decode(jt); err != nil {
		return nil, fmt.Errorf("parsing tree: %v", err)
	}
	task, err := tree.ParseTask(jt.Task)
	if err != nil {
		return nil, fmt.Errorf("parsing tree: %v", err)
	}
	features := make([]feature.Feature, 0, len(jt.Features))
	for _, jf := range jt.Features {
		f, err := fjson.Decode(jf)
		if err != nil {
			return nil, fmt.Errorf("parsing tree: %v", err)
		}
		features = append(features, f)
	}
	if len(jt.Target) == 0 {
		return nil, fmt.Errorf("parsing tree: no target feature")
	}
	target, err := fjson.Decode(jt.Target)
	if err != nil {
		return nil, fmt.Errorf("parsing tree: %v", err)
	}
	var classes []string
	if dt, ok := target.(*feature.DiscreteFeature); ok {
		if task != tree.Classification {
			return nil, fmt.Errorf("parsing tree: %s tree with a discrete target", task)
		}
		classes = dt.AvailableValues()
	} else if task != tree.Regression {
		return nil, fmt.Errorf("parsing tree: %s tree with a continuous target", task)
	}
	if len(jt.Nodes) == 0 {
		return nil, fmt.Errorf("parsing tree: no nodes")
	}
	root, next, err := decodeNodes(jt.Nodes, 0, task, len(features), classes)
	if err != nil {
		return nil, fmt.Errorf("parsing tree: %v", err)
	}
	if next != len(jt.Nodes) {
		return nil, fmt.Errorf("parsing tree: %d nodes left after the tree is complete", len(jt.Nodes)-next)
	}
	return tree.New(root, task, features, target), nil
}

/*
Encode serializes the given tree with WriteTree and returns the
resulting bytes.
*/
func Encode(t *tree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTree(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/*
Decode deserializes a tree from the given bytes with ReadTree.
*/
func Decode(data []byte) (*tree.Tree, error) {
	return ReadTree(bytes.NewReader(data))
}

/*
Codec exposes Encode and Decode as methods, for stores that take
an encoder and decoder pair as a value.
*/
type Codec struct{}

//Encode serializes the given tree with the package Encode function.
func (Codec) Encode(t *tree.Tree) ([]byte, error) {
	return Encode(t)
}

//Decode deserializes a tree with the package Decode function.
func (Codec) Decode(data []byte) (*tree.Tree, error) {
	return Decode(data)
}

func marshalTreeHeader(t *tree.Tree, w io.Writer) error {
	jTask, err := json.Marshal(string(t.Task))
	if err != nil {
		return err
	}
	features := make([]json.RawMessage, 0, len(t.Features))
	for _, f := range t.Features {
		jf, err := fjson.Encode(f)
		if err != nil {
			return err
		}
		features = append(features, jf)
	}
	jFeatures, err := json.Marshal(features)
	if err != nil {
		return err
	}
	if t.Target == nil {
		return fmt.Errorf("tree has no target feature")
	}
	jTarget, err := fjson.Encode(t.Target)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, `{"task":%s,"features":%s,"target":%s,"nodes":[`, jTask, jFeatures, jTarget)
	return err
}
