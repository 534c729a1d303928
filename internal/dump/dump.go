// Package dump renders element-tree snapshots for inspection.
package dump

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/popkit/popkit/internal/tree"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Snapshot is a point-in-time copy of one element and its visual
// subtree. Logical children that are not visual descendants (a popup's
// presentation root, for instance) appear under LogicalOnly.
type Snapshot struct {
	ID          string     `json:"id" yaml:"id"`
	Kind        string     `json:"kind" yaml:"kind"`
	Attached    bool       `json:"attached" yaml:"attached"`
	OwnerKind   string     `json:"owner_kind,omitempty" yaml:"owner_kind,omitempty"`
	OwnerID     string     `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Children    []Snapshot `json:"children,omitempty" yaml:"children,omitempty"`
	LogicalOnly []Snapshot `json:"logical_only,omitempty" yaml:"logical_only,omitempty"`
}

// Capture walks the element's visual tree and records it. Logical
// children without a visual parent are captured as separate roots so a
// popup's presentation root shows up under the popup.
func Capture(root tree.Element) Snapshot {
	s := Snapshot{
		ID:       root.ID(),
		Kind:     root.Kind(),
		Attached: root.IsAttached(),
	}
	if owner := root.TemplatedOwner(); owner != nil {
		s.OwnerKind = owner.Kind()
		s.OwnerID = owner.ID()
	}
	if aged, ok := root.(interface{ CreatedAt() time.Time }); ok {
		s.CreatedAt = aged.CreatedAt()
	}

	for _, child := range root.VisualChildren() {
		s.Children = append(s.Children, Capture(child))
	}

	for _, child := range root.LogicalChildren().Items() {
		if child.VisualParent() == nil {
			s.LogicalOnly = append(s.LogicalOnly, Capture(child))
		}
	}

	return s
}

// Encode renders a snapshot in the given format.
func Encode(s Snapshot, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return string(data), nil
	case FormatText, "":
		var b strings.Builder
		writeText(&b, s, 0)
		return b.String(), nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

func writeText(b *strings.Builder, s Snapshot, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s (%s)", indent, s.Kind, shortID(s.ID))
	if s.OwnerKind != "" {
		fmt.Fprintf(b, " owner=%s", s.OwnerKind)
	}
	if !s.Attached {
		b.WriteString(" detached")
	}
	b.WriteString("\n")

	for _, child := range s.Children {
		writeText(b, child, depth+1)
	}
	for _, child := range s.LogicalOnly {
		fmt.Fprintf(b, "%s  [logical]\n", indent)
		writeText(b, child, depth+2)
	}
}

// shortID truncates a ULID for readable text output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Flatten returns the snapshot and all its descendants depth-first,
// each paired with its depth. Used by the tree inspector.
type FlatNode struct {
	Snapshot Snapshot
	Depth    int
	Logical  bool
}

func Flatten(s Snapshot) []FlatNode {
	var out []FlatNode
	flatten(s, 0, false, &out)
	return out
}

func flatten(s Snapshot, depth int, logical bool, out *[]FlatNode) {
	// Children are detached from the flattened copy so each row carries
	// only its own fields.
	row := s
	row.Children = nil
	row.LogicalOnly = nil
	*out = append(*out, FlatNode{Snapshot: row, Depth: depth, Logical: logical})

	for _, child := range s.Children {
		flatten(child, depth+1, false, out)
	}
	for _, child := range s.LogicalOnly {
		flatten(child, depth+1, true, out)
	}
}
