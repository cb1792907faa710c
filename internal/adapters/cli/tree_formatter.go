package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// SupplyNode is one building in a supply tree. A building fed through several paths appears
// once in full; later appearances are marked Repeated and carry no children.
type SupplyNode struct {
	Name        string
	Kind        facility.Kind
	Products    []string
	QueueLength int
	Repeated    bool
	Children    []*SupplyNode
}

// BuildSupplyTree walks the sources of name recursively
func BuildSupplyTree(s *simulation.Simulation, name string) (*SupplyNode, error) {
	root, err := s.Building(name)
	if err != nil {
		return nil, err
	}
	return supplyNode(s, root, map[string]bool{}), nil
}

func supplyNode(s *simulation.Simulation, b *facility.Building, expanded map[string]bool) *SupplyNode {
	node := &SupplyNode{Name: b.Name(), Kind: b.Kind(), QueueLength: b.QueueLength()}
	for _, r := range b.Recipes() {
		node.Products = append(node.Products, r.Output())
	}
	sort.Strings(node.Products)

	if expanded[b.Name()] {
		node.Repeated = true
		return node
	}
	expanded[b.Name()] = true
	for _, src := range b.SourceNames() {
		if child, ok := s.Lookup(src); ok {
			node.Children = append(node.Children, supplyNode(s, child, expanded))
		}
	}
	return node
}

// CountNodes counts distinct buildings in the tree
func (n *SupplyNode) CountNodes() int {
	if n.Repeated {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += c.CountNodes()
	}
	return count
}

func (n *SupplyNode) Depth() int {
	deepest := 0
	for _, c := range n.Children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// TreeFormatter renders supply trees for the terminal
type TreeFormatter struct {
	useColors bool
}

func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatTree renders a supply tree with box-drawing branches
func (f *TreeFormatter) FormatTree(root *SupplyNode) string {
	if root == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

func (f *TreeFormatter) formatNode(builder *strings.Builder, node *SupplyNode, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	products := ""
	if len(node.Products) > 0 {
		products = " {" + strings.Join(node.Products, ", ") + "}"
	}
	queue := ""
	if node.QueueLength > 0 {
		queue = fmt.Sprintf(", %d queued", node.QueueLength)
	}
	repeated := ""
	if node.Repeated {
		repeated = " (see above)"
	}

	builder.WriteString(fmt.Sprintf("%s%s [%s%s%s]%s%s%s\n",
		linePrefix,
		node.Name,
		f.kindColor(node.Kind),
		node.Kind,
		f.colorReset(),
		products,
		queue,
		repeated,
	))

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}
	for i, child := range node.Children {
		f.formatNode(builder, child, childPrefix, i == len(node.Children)-1, false)
	}
}

func (f *TreeFormatter) kindColor(kind facility.Kind) string {
	if !f.useColors {
		return ""
	}

	switch kind {
	case facility.KindMine:
		return "\033[33m" // Yellow
	case facility.KindFactory:
		return "\033[32m" // Green
	case facility.KindStorage:
		return "\033[36m" // Cyan
	default:
		return ""
	}
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatTreeSummary creates a compact summary of the tree
func (f *TreeFormatter) FormatTreeSummary(root *SupplyNode) string {
	if root == nil {
		return "No supply tree"
	}
	return fmt.Sprintf("Tree: %d buildings, depth=%d", root.CountNodes(), root.Depth())
}
