package scrub

import (
	"testing"
)

func TestNodeTree(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	b := NewBox("b", 10, 10, ColorWhite)
	root.AddChild(a)
	a.AddChild(b)

	if root.FindChild("b") != b {
		t.Error("FindChild did not search depth first")
	}
	if root.FindChild("missing") != nil {
		t.Error("FindChild found a missing name")
	}

	// Re-parenting detaches from the old parent.
	root.AddChild(b)
	if len(a.Children()) != 0 || b.Parent != root {
		t.Errorf("reparent: a has %d children, parent %v", len(a.Children()), b.Parent.Name)
	}

	b.RemoveFromParent()
	b.RemoveFromParent()
	if b.Parent != nil || len(root.Children()) != 1 {
		t.Error("RemoveFromParent did not detach")
	}
}

func TestNodeAddChildPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil child", func() { NewContainer("p").AddChild(nil) }},
		{"cycle", func() {
			p := NewContainer("p")
			c := NewContainer("c")
			p.AddChild(c)
			c.AddChild(p)
		}},
		{"foreign child", func() { NewContainer("p").RemoveChild(NewContainer("c")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestNodeAccepts(t *testing.T) {
	c := NewContainer("c")
	b := NewBox("b", 1, 1, ColorWhite)
	for k := PropertyKind(0); k < numPropertyKinds; k++ {
		if !b.Accepts(k) {
			t.Errorf("box rejects %v", k)
		}
		want := k == PropOpacity || k == PropTranslate || k == PropBlur
		if c.Accepts(k) != want {
			t.Errorf("container Accepts(%v) = %v, want %v", k, !want, want)
		}
	}
	if b.Accepts(numPropertyKinds) {
		t.Error("box accepts an unknown property")
	}
}

func TestNodeProperties(t *testing.T) {
	n := NewBox("b", 10, 20, ColorWhite)
	red := Color{R: 1, A: 1}
	writes := []struct {
		kind PropertyKind
		v    Value
	}{
		{PropOpacity, Scalar(0.4)},
		{PropWidth, Scalar(30)},
		{PropHeight, Scalar(40)},
		{PropBlur, Scalar(6)},
		{PropTranslate, Vec(5, -5)},
		{PropColor, RGBA(red)},
	}
	for _, w := range writes {
		if !n.SetProperty(w.kind, w.v) {
			t.Fatalf("SetProperty(%v) = false", w.kind)
		}
		got, ok := n.Property(w.kind)
		if !ok || got != w.v {
			t.Errorf("Property(%v) = %+v, want %+v", w.kind, got, w.v)
		}
	}
	if n.Width != 30 || n.Height != 40 || n.OffsetX != 5 || n.Color != red {
		t.Errorf("node = %+v", n)
	}

	n.SetProperty(PropSize, Vec(1, 2))
	if n.Width != 1 || n.Height != 2 {
		t.Errorf("size = (%v, %v), want (1, 2)", n.Width, n.Height)
	}
}

func TestNodeDispose(t *testing.T) {
	root := NewContainer("root")
	root.root = true
	parent := NewContainer("parent")
	child := NewBox("child", 1, 1, ColorWhite)
	root.AddChild(parent)
	parent.AddChild(child)
	if !child.Mounted() {
		t.Fatal("child not mounted under the root")
	}

	parent.Dispose()
	if !child.IsDisposed() || child.Mounted() {
		t.Error("descendant not disposed")
	}
	if len(root.Children()) != 0 {
		t.Error("disposed node still attached")
	}
	if child.SetProperty(PropOpacity, Scalar(0)) {
		t.Error("disposed node accepted a write")
	}
	if _, ok := child.Property(PropOpacity); ok {
		t.Error("disposed node returned a value")
	}
	parent.Dispose()
}

func TestNodeDocumentBounds(t *testing.T) {
	root := NewContainer("root")
	root.root = true
	sec := NewContainer("section")
	sec.Y = 1000
	box := NewBox("box", 200, 100, ColorWhite)
	box.X, box.Y = 300, 50
	box.PivotX, box.PivotY = 0.5, 0.5
	box.OffsetY = 999 // animated offsets do not move layout
	sec.AddChild(box)

	if _, ok := box.DocumentBounds(); ok {
		t.Error("bounds reported for an unmounted node")
	}
	root.AddChild(sec)
	r, ok := box.DocumentBounds()
	if !ok {
		t.Fatal("bounds not reported for a mounted node")
	}
	want := Rect{X: 200, Y: 1000, Width: 200, Height: 100}
	if r != want {
		t.Errorf("DocumentBounds = %+v, want %+v", r, want)
	}
}

func TestNodeSetText(t *testing.T) {
	l := NewLabel("l", "abc")
	if l.Width != 3*debugGlyphW || l.Height != debugGlyphH {
		t.Errorf("label size = (%v, %v)", l.Width, l.Height)
	}
	l.SetText("abcdef")
	if l.Text != "abcdef" || l.Width != 6*debugGlyphW {
		t.Errorf("after SetText = (%q, %v)", l.Text, l.Width)
	}

	b := NewBox("b", 50, 10, ColorWhite)
	b.SetText("ignored width")
	if b.Width != 50 {
		t.Error("SetText resized a box")
	}
}

func TestNodeIDsUnique(t *testing.T) {
	a, b := NewContainer("a"), NewContainer("a")
	if a.ID == 0 || a.ID == b.ID {
		t.Errorf("IDs = %d, %d", a.ID, b.ID)
	}
}
