package doc

import (
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/zclconf/go-cty/cty"
)

// HCLNode writes documentation as HCL blocks and attributes.
type HCLNode struct {
	body *hclwrite.Body
}

// HCLDocument is the root of an HCL documentation tree.
type HCLDocument struct {
	HCLNode
	file *hclwrite.File
}

func NewHCLDocument() *HCLDocument {
	f := hclwrite.NewEmptyFile()
	return &HCLDocument{HCLNode: HCLNode{body: f.Body()}, file: f}
}

func (n *HCLNode) SetAttribute(key, value string) {
	n.body.SetAttributeValue(snake(key), cty.StringVal(value))
}

func (n *HCLNode) AddChild(kind string) eli.DocNode {
	block := n.body.AppendNewBlock(snake(kind), nil)
	return &HCLNode{body: block.Body()}
}

// WriteTo writes the formatted document.
func (d *HCLDocument) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())
	return int64(n), err
}

// Bytes returns the formatted document.
func (d *HCLDocument) Bytes() []byte {
	return hclwrite.Format(d.file.Bytes())
}
