package tree

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Node is the base implementation of Element. Widgets embed it and call
// InitNode from their constructors.
type Node struct {
	id        string
	kind      string
	createdAt time.Time

	// self points at the outer widget embedding this Node, so parent
	// pointers reference the widget rather than the embedded base.
	self Element

	logicalParent Element
	visualParent  Element
	logical       ChildList
	visual        []Element

	owner    Element
	attached bool

	attachHooks []func(bool)
}

// InitNode assigns the node's kind and a fresh ULID. self must be the
// outer widget embedding this Node (or nil for a bare Node). It must be
// called exactly once, before the node enters a tree.
func (n *Node) InitNode(self Element, kind string) {
	n.self = self
	n.id = ulid.Make().String()
	n.kind = kind
	n.createdAt = time.Now()
}

// selfElement returns the outer widget, falling back to the Node itself.
func (n *Node) selfElement() Element {
	if n.self != nil {
		return n.self
	}
	return n
}

// ID returns the node's unique identifier.
func (n *Node) ID() string { return n.id }

// Kind returns the node's kind name.
func (n *Node) Kind() string { return n.kind }

// CreatedAt returns when the node was initialized.
func (n *Node) CreatedAt() time.Time { return n.createdAt }

// LogicalParent returns the logical parent, or nil.
func (n *Node) LogicalParent() Element { return n.logicalParent }

// SetLogicalParent sets or clears the logical parent.
func (n *Node) SetLogicalParent(parent Element) { n.logicalParent = parent }

// VisualParent returns the visual parent, or nil.
func (n *Node) VisualParent() Element { return n.visualParent }

// SetVisualParent sets or clears the visual parent.
func (n *Node) SetVisualParent(parent Element) { n.visualParent = parent }

// LogicalChildren returns the observable logical-children collection.
func (n *Node) LogicalChildren() *ChildList { return &n.logical }

// VisualChildren returns a copy of the visual children.
func (n *Node) VisualChildren() []Element {
	out := make([]Element, len(n.visual))
	copy(out, n.visual)
	return out
}

// AddVisualChild appends child to the visual children and sets its
// visual parent. A child with an existing visual parent is removed from
// it first; an element has at most one visual parent.
func (n *Node) AddVisualChild(child Element) {
	if vp := child.VisualParent(); vp != nil {
		vp.RemoveVisualChild(child)
	}
	n.visual = append(n.visual, child)
	child.SetVisualParent(n.selfElement())
}

// RemoveVisualChild removes child from the visual children and clears
// its visual parent.
func (n *Node) RemoveVisualChild(child Element) {
	for i, c := range n.visual {
		if c == child {
			n.visual = append(n.visual[:i], n.visual[i+1:]...)
			child.SetVisualParent(nil)
			return
		}
	}
}

// TemplatedOwner returns the control whose template produced this node,
// or nil.
func (n *Node) TemplatedOwner() Element { return n.owner }

// SetTemplatedOwner records the template back-reference.
func (n *Node) SetTemplatedOwner(owner Element) { n.owner = owner }

// IsAttached reports whether the node is attached to the ambient tree.
func (n *Node) IsAttached() bool { return n.attached }

// AttachToTree marks the node attached and propagates to logical and
// visual descendants. Hooks fire before descendants are visited.
func (n *Node) AttachToTree() {
	if n.attached {
		return
	}
	n.attached = true
	for _, fn := range n.attachHooks {
		fn(true)
	}
	for _, child := range n.logical.Items() {
		child.AttachToTree()
	}
	for _, child := range n.VisualChildren() {
		child.AttachToTree()
	}
}

// DetachFromTree marks the node detached and propagates to logical and
// visual descendants.
func (n *Node) DetachFromTree() {
	if !n.attached {
		return
	}
	n.attached = false
	for _, fn := range n.attachHooks {
		fn(false)
	}
	for _, child := range n.logical.Items() {
		child.DetachFromTree()
	}
	for _, child := range n.VisualChildren() {
		child.DetachFromTree()
	}
}

// OnAttachmentChanged registers a hook invoked whenever the attachment
// state flips.
func (n *Node) OnAttachmentChanged(fn func(attached bool)) {
	n.attachHooks = append(n.attachHooks, fn)
}
