// Package tree implements the logical/visual element tree that popkit
// widgets are built on.
//
// Every element participates in two independent hierarchies: the logical
// tree (ownership, property inheritance, structural queries) and the
// visual tree (presentation). An element's logical parent and visual
// parent are set separately and one never implies the other.
package tree

// ChildAction identifies the kind of change made to a ChildList.
type ChildAction int

const (
	// ChildAdd indicates an element was added to the list.
	ChildAdd ChildAction = iota
	// ChildRemove indicates an element was removed from the list.
	ChildRemove
)

// String returns the action name.
func (a ChildAction) String() string {
	switch a {
	case ChildAdd:
		return "add"
	case ChildRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// ChildChange describes a single mutation of a ChildList.
type ChildChange struct {
	Action  ChildAction
	Element Element
}

// Element is the interface implemented by every node in the tree.
// Widgets embed Node to satisfy it.
type Element interface {
	// ID returns the element's unique identifier (a ULID).
	ID() string
	// Kind returns the element's kind name (e.g. "popup", "border").
	Kind() string

	// LogicalParent returns the element's logical parent, or nil.
	LogicalParent() Element
	// SetLogicalParent sets the element's logical parent. Passing nil
	// clears it.
	SetLogicalParent(parent Element)

	// VisualParent returns the element's visual parent, or nil. Top-level
	// presentation roots always return nil.
	VisualParent() Element
	// SetVisualParent sets the element's visual parent.
	SetVisualParent(parent Element)

	// LogicalChildren returns the element's observable logical-children
	// collection.
	LogicalChildren() *ChildList
	// VisualChildren returns a copy of the element's visual children.
	VisualChildren() []Element
	// AddVisualChild appends a visual child and sets its visual parent.
	AddVisualChild(child Element)
	// RemoveVisualChild removes a visual child and clears its visual
	// parent. It is a no-op if the child is not present.
	RemoveVisualChild(child Element)

	// TemplatedOwner returns the control whose template produced this
	// element, or nil for user-supplied content.
	TemplatedOwner() Element
	// SetTemplatedOwner records the template back-reference.
	SetTemplatedOwner(owner Element)

	// IsAttached reports whether the element is attached to the ambient
	// tree.
	IsAttached() bool
	// AttachToTree marks the element and its descendants attached.
	AttachToTree()
	// DetachFromTree marks the element and its descendants detached.
	DetachFromTree()
	// OnAttachmentChanged registers a hook invoked synchronously whenever
	// the element's attachment state flips.
	OnAttachmentChanged(fn func(attached bool))
}

// ChildList is an ordered, observable collection of elements. All
// mutations notify watchers synchronously before returning.
type ChildList struct {
	items    []Element
	watchers map[int]func(ChildChange)
	nextID   int
}

// Len returns the number of elements in the list.
func (l *ChildList) Len() int {
	return len(l.items)
}

// Items returns a copy of the list contents.
func (l *ChildList) Items() []Element {
	out := make([]Element, len(l.items))
	copy(out, l.items)
	return out
}

// Index returns the position of e in the list, or -1.
func (l *ChildList) Index(e Element) int {
	for i, item := range l.items {
		if item == e {
			return i
		}
	}
	return -1
}

// Contains reports whether e is in the list.
func (l *ChildList) Contains(e Element) bool {
	return l.Index(e) >= 0
}

// Watch registers a change watcher. The returned func cancels it.
func (l *ChildList) Watch(fn func(ChildChange)) func() {
	if l.watchers == nil {
		l.watchers = make(map[int]func(ChildChange))
	}
	id := l.nextID
	l.nextID++
	l.watchers[id] = fn
	return func() {
		delete(l.watchers, id)
	}
}

// Append adds e to the end of the list and emits a single Add
// notification.
func (l *ChildList) Append(e Element) {
	l.items = append(l.items, e)
	l.notify(ChildChange{Action: ChildAdd, Element: e})
}

// Remove removes e from the list and emits a single Remove notification.
// Returns false if e was not present.
func (l *ChildList) Remove(e Element) bool {
	i := l.Index(e)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.notify(ChildChange{Action: ChildRemove, Element: e})
	return true
}

// Swap replaces old with new in place, emitting exactly one Add
// notification for the new element. The removal of old does not produce
// a separate Remove event; a replacement is a single logical change.
// Falls back to Append if old is not present.
func (l *ChildList) Swap(old, new Element) {
	i := l.Index(old)
	if i < 0 {
		l.Append(new)
		return
	}
	l.items[i] = new
	l.notify(ChildChange{Action: ChildAdd, Element: new})
}

func (l *ChildList) notify(c ChildChange) {
	for _, fn := range l.watchers {
		fn(c)
	}
}

// VisualDescendants returns e's visual descendants in depth-first order,
// excluding e itself.
func VisualDescendants(e Element) []Element {
	var out []Element
	var walk func(Element)
	walk = func(cur Element) {
		for _, child := range cur.VisualChildren() {
			out = append(out, child)
			walk(child)
		}
	}
	walk(e)
	return out
}

// LogicalDescendants returns e's logical descendants in depth-first
// order, excluding e itself.
func LogicalDescendants(e Element) []Element {
	var out []Element
	var walk func(Element)
	walk = func(cur Element) {
		for _, child := range cur.LogicalChildren().Items() {
			out = append(out, child)
			walk(child)
		}
	}
	walk(e)
	return out
}
