package scrub

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Target is an animatable handle: a renderable element plus the set of
// properties it accepts. Implementations must be comparable (typically a
// pointer) because timelines group segments by target identity.
type Target interface {
	// SetProperty writes v to the property. It returns false when the
	// target is gone; that is not an error.
	SetProperty(kind PropertyKind, v Value) bool
	// Property reads the current value of the property.
	Property(kind PropertyKind) (Value, bool)
	// Accepts reports whether the target can animate the property.
	Accepts(kind PropertyKind) bool
}

// Element is a document element a pinned region can be anchored to.
type Element interface {
	// DocumentBounds returns the element's layout rectangle in document
	// space. ok is false while the element is not mounted.
	DocumentBounds() (r Rect, ok bool)
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeBox                       // solid rectangle tinted by Color
	NodeTypeLabel                     // single line of debug-font text
)

// nodeIDCounter is a plain counter (no atomic, scrub is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the document element and the default Target. A single flat struct
// is used for all node types.
type Node struct {
	ID   uint32
	Name string
	Type NodeType

	Parent   *Node
	children []*Node

	// Layout, relative to the parent. X and Y locate the pivot point.
	X, Y          float64
	Width, Height float64
	// PivotX and PivotY are fractions of the size; 0.5, 0.5 grows a box
	// around its center.
	PivotX, PivotY float64

	// Animated state.
	Alpha   float64
	Blur    float64
	OffsetX float64
	OffsetY float64
	Color   Color
	Visible bool

	// Text is drawn by label nodes.
	Text string

	UserData any

	root      bool // scene document root; descendants count as mounted
	disposed  bool
	textImage *ebiten.Image
	textCache string
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewBox creates a solid rectangle of the given size and color.
func NewBox(name string, w, h float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeBox, Width: w, Height: h}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewLabel creates a text node rendered with the debug font.
func NewLabel(name, text string) *Node {
	n := &Node{Name: name, Type: NodeTypeLabel, Text: text}
	nodeDefaults(n)
	n.Width = float64(len(text) * debugGlyphW)
	n.Height = debugGlyphH
	return n
}

// SetText replaces a label's text and resizes it to fit.
func (n *Node) SetText(text string) {
	if n.Text == text {
		return
	}
	n.Text = text
	if n.Type == NodeTypeLabel {
		n.Width = float64(len(text) * debugGlyphW)
	}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("scrub: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("scrub: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("scrub: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// FindChild returns the first descendant with the given name, depth first.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		if found := c.FindChild(name); found != nil {
			return found
		}
	}
	return nil
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Writes to a disposed node are
// ignored.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.UserData = nil
	if n.textImage != nil {
		n.textImage.Deallocate()
		n.textImage = nil
	}
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// Mounted reports whether the node is attached under a scene's document root.
func (n *Node) Mounted() bool {
	if n.disposed {
		return false
	}
	for p := n; p != nil; p = p.Parent {
		if p.root {
			return true
		}
	}
	return false
}

// --- Target ---

// Accepts reports whether the node can animate kind. Containers have no
// visual of their own and only carry opacity, blur and translation down to
// their children.
func (n *Node) Accepts(kind PropertyKind) bool {
	if kind >= numPropertyKinds {
		return false
	}
	if n.Type == NodeTypeContainer {
		return kind == PropOpacity || kind == PropTranslate || kind == PropBlur
	}
	return true
}

// SetProperty writes v to the node. Disposed nodes ignore the write and
// report false.
func (n *Node) SetProperty(kind PropertyKind, v Value) bool {
	if n.disposed {
		return false
	}
	switch kind {
	case PropOpacity:
		n.Alpha = v.F
	case PropWidth:
		n.Width = v.F
	case PropHeight:
		n.Height = v.F
	case PropSize:
		n.Width, n.Height = v.V.X, v.V.Y
	case PropBlur:
		n.Blur = v.F
	case PropTranslate:
		n.OffsetX, n.OffsetY = v.V.X, v.V.Y
	case PropColor:
		n.Color = v.C
	default:
		return false
	}
	return true
}

// Property reads the node's current value for kind.
func (n *Node) Property(kind PropertyKind) (Value, bool) {
	if n.disposed {
		return Value{}, false
	}
	switch kind {
	case PropOpacity:
		return Scalar(n.Alpha), true
	case PropWidth:
		return Scalar(n.Width), true
	case PropHeight:
		return Scalar(n.Height), true
	case PropSize:
		return Vec(n.Width, n.Height), true
	case PropBlur:
		return Scalar(n.Blur), true
	case PropTranslate:
		return Vec(n.OffsetX, n.OffsetY), true
	case PropColor:
		return RGBA(n.Color), true
	}
	return Value{}, false
}

// --- Element ---

// DocumentBounds returns the node's layout rectangle in document space,
// ignoring animated offsets. ok is false while the node is not mounted.
func (n *Node) DocumentBounds() (Rect, bool) {
	if !n.Mounted() {
		return Rect{}, false
	}
	x, y := 0.0, 0.0
	for p := n; p != nil; p = p.Parent {
		x += p.X
		y += p.Y
	}
	return Rect{
		X:      x - n.PivotX*n.Width,
		Y:      y - n.PivotY*n.Height,
		Width:  n.Width,
		Height: n.Height,
	}, true
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
