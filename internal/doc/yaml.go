package doc

import (
	"fmt"
	"io"

	"github.com/specialistvlad/eligo/internal/eli"
	"gopkg.in/yaml.v3"
)

// YAMLNode writes documentation as a YAML mapping. Children of one kind are
// collected into a sequence under the kind's key.
type YAMLNode struct {
	node *yaml.Node
	seqs map[string]*yaml.Node
}

func NewYAMLDocument() *YAMLNode {
	return newYAMLNode()
}

func newYAMLNode() *YAMLNode {
	return &YAMLNode{node: &yaml.Node{Kind: yaml.MappingNode}, seqs: make(map[string]*yaml.Node)}
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func (n *YAMLNode) SetAttribute(key, value string) {
	n.node.Content = append(n.node.Content, scalar(snake(key)), scalar(value))
}

func (n *YAMLNode) AddChild(kind string) eli.DocNode {
	key := snake(kind)
	seq, ok := n.seqs[key]
	if !ok {
		seq = &yaml.Node{Kind: yaml.SequenceNode}
		n.seqs[key] = seq
		n.node.Content = append(n.node.Content, scalar(key), seq)
	}
	child := newYAMLNode()
	seq.Content = append(seq.Content, child.node)
	return child
}

// Encode writes the document with two-space indentation.
func (n *YAMLNode) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n.node); err != nil {
		return fmt.Errorf("encoding documentation: %w", err)
	}
	return enc.Close()
}
