package scrub

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Document is a page loaded from YAML: its sections, ready to mount, and
// every named node for lookup by Go code.
type Document struct {
	Title      string
	Background Color
	Sections   []*Section

	nodes map[string]*Node
}

// Node returns the node declared with name, or the root of the section with
// that name, or nil.
func (d *Document) Node(name string) *Node {
	return d.nodes[name]
}

// Section returns the section declared with name, or nil.
func (d *Document) Section(name string) *Section {
	for _, sec := range d.Sections {
		if sec.Name == name {
			return sec
		}
	}
	return nil
}

// Mount mounts every section in order. It stops at the first failure.
func (d *Document) Mount(s *Scene) error {
	for _, sec := range d.Sections {
		if err := s.Mount(sec); err != nil {
			return err
		}
	}
	return nil
}

// documentFile is the YAML layout of a document.
type documentFile struct {
	Title      string        `yaml:"title"`
	Background string        `yaml:"background"`
	Sections   []sectionFile `yaml:"sections"`
}

type sectionFile struct {
	Name      string         `yaml:"name"`
	Height    float64        `yaml:"height"`
	Pin       bool           `yaml:"pin"`
	Start     string         `yaml:"start"`
	End       string         `yaml:"end"`
	Slack     float64        `yaml:"slack"`
	Scrub     float64        `yaml:"scrub"`
	Play      float32        `yaml:"play"`
	Delay     float32        `yaml:"delay"`
	Autoplay  bool           `yaml:"autoplay"`
	Nodes     []nodeFile     `yaml:"nodes"`
	Segments  []segmentFile  `yaml:"segments"`
	Staggers  []staggerFile  `yaml:"stagger"`
	Crossfade *crossfadeFile `yaml:"crossfade"`
}

type nodeFile struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind"`
	Parent string    `yaml:"parent"`
	X      float64   `yaml:"x"`
	Y      float64   `yaml:"y"`
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Pivot  []float64 `yaml:"pivot"`
	Color  string    `yaml:"color"`
	Alpha  *float64  `yaml:"alpha"`
	Blur   float64   `yaml:"blur"`
	Offset []float64 `yaml:"offset"`
	Text   string    `yaml:"text"`
}

type segmentFile struct {
	Target   string    `yaml:"target"`
	Property string    `yaml:"property"`
	At       float64   `yaml:"at"`
	Duration float64   `yaml:"duration"`
	From     yaml.Node `yaml:"from"`
	To       yaml.Node `yaml:"to"`
	Ease     string    `yaml:"ease"`
}

type staggerFile struct {
	Targets  []string  `yaml:"targets"`
	Property string    `yaml:"property"`
	Start    float64   `yaml:"start"`
	Span     float64   `yaml:"span"`
	Duration float64   `yaml:"duration"`
	Blur     float64   `yaml:"blur"`
	From     yaml.Node `yaml:"from"`
	To       yaml.Node `yaml:"to"`
	Ease     string    `yaml:"ease"`
}

type crossfadeFile struct {
	Panels  []string `yaml:"panels"`
	Hold    *float64 `yaml:"hold"`
	Fade    *float64 `yaml:"fade"`
	InDelay *float64 `yaml:"inDelay"`
	Blur    *float64 `yaml:"blur"`
	Ease    string   `yaml:"ease"`
}

// ReadDocument loads a document from a YAML file.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocument, err)
	}
	return LoadDocument(data)
}

// LoadDocument parses a YAML document and builds its node trees and
// segments. Errors wrap ErrDocument and name the offending section.
func LoadDocument(data []byte) (*Document, error) {
	var f documentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocument, err)
	}
	doc := &Document{Title: f.Title, nodes: make(map[string]*Node)}
	if f.Background != "" {
		c, err := ParseColor(f.Background)
		if err != nil {
			return nil, fmt.Errorf("%w: background: %w", ErrDocument, err)
		}
		doc.Background = c
	}
	for i := range f.Sections {
		sf := &f.Sections[i]
		sec, err := doc.buildSection(sf)
		if err != nil {
			name := sf.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("%w: section %s: %w", ErrDocument, name, err)
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}

func (d *Document) buildSection(sf *sectionFile) (*Section, error) {
	if sf.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if _, dup := d.nodes[sf.Name]; dup {
		return nil, fmt.Errorf("name already used")
	}
	sec := NewSection(sf.Name)
	// The section root is a target too, under the section's name.
	d.nodes[sf.Name] = sec.Root
	sec.Height = sf.Height
	sec.Pinned = sf.Pin
	sec.ActivationSlack = sf.Slack
	sec.Scrub = sf.Scrub
	sec.Play = sf.Play
	sec.PlayDelay = sf.Delay
	sec.Autoplay = sf.Autoplay
	if sf.Start != "" {
		start, err := ParseStart(sf.Start)
		if err != nil {
			return nil, err
		}
		sec.Start = start
	}
	if sf.End != "" {
		extent, err := ParseExtent(sf.End)
		if err != nil {
			return nil, err
		}
		sec.Extent = extent
	}

	for i := range sf.Nodes {
		if err := d.buildNode(sec, &sf.Nodes[i]); err != nil {
			return nil, err
		}
	}
	for i := range sf.Segments {
		seg, err := d.buildSegment(&sf.Segments[i])
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		sec.Segments = append(sec.Segments, seg)
	}
	for i := range sf.Staggers {
		segs, err := d.buildStagger(&sf.Staggers[i])
		if err != nil {
			return nil, fmt.Errorf("stagger %d: %w", i, err)
		}
		sec.Segments = append(sec.Segments, segs...)
	}
	if sf.Crossfade != nil {
		segs, err := d.buildCrossfade(sf.Crossfade)
		if err != nil {
			return nil, fmt.Errorf("crossfade: %w", err)
		}
		sec.Segments = append(sec.Segments, segs...)
	}
	return sec, nil
}

func (d *Document) buildNode(sec *Section, nf *nodeFile) error {
	if nf.Name == "" {
		return fmt.Errorf("node without a name")
	}
	if _, dup := d.nodes[nf.Name]; dup {
		return fmt.Errorf("duplicate node %q", nf.Name)
	}
	var n *Node
	switch nf.Kind {
	case "", "box":
		n = NewBox(nf.Name, nf.Width, nf.Height, ColorWhite)
	case "label":
		n = NewLabel(nf.Name, nf.Text)
		if nf.Width > 0 {
			n.Width = nf.Width
		}
	case "container":
		n = NewContainer(nf.Name)
		n.Width, n.Height = nf.Width, nf.Height
	default:
		return fmt.Errorf("node %q: unknown kind %q", nf.Name, nf.Kind)
	}
	n.X, n.Y = nf.X, nf.Y
	n.Blur = nf.Blur
	if nf.Alpha != nil {
		n.Alpha = *nf.Alpha
	}
	if len(nf.Pivot) > 0 {
		if len(nf.Pivot) != 2 {
			return fmt.Errorf("node %q: pivot wants two numbers", nf.Name)
		}
		n.PivotX, n.PivotY = nf.Pivot[0], nf.Pivot[1]
	}
	if len(nf.Offset) > 0 {
		if len(nf.Offset) != 2 {
			return fmt.Errorf("node %q: offset wants two numbers", nf.Name)
		}
		n.OffsetX, n.OffsetY = nf.Offset[0], nf.Offset[1]
	}
	if nf.Color != "" {
		c, err := ParseColor(nf.Color)
		if err != nil {
			return fmt.Errorf("node %q: %w", nf.Name, err)
		}
		n.Color = c
	}

	parent := sec.Root
	if nf.Parent != "" {
		parent = d.nodes[nf.Parent]
		if parent == nil || !isAncestor(sec.Root, parent) {
			return fmt.Errorf("node %q: parent %q not declared earlier in the section", nf.Name, nf.Parent)
		}
	}
	parent.AddChild(n)
	d.nodes[nf.Name] = n
	return nil
}

func (d *Document) target(name string) (*Node, error) {
	n := d.nodes[name]
	if n == nil {
		return nil, fmt.Errorf("unknown target %q", name)
	}
	return n, nil
}

func (d *Document) buildSegment(sf *segmentFile) (Segment, error) {
	n, err := d.target(sf.Target)
	if err != nil {
		return Segment{}, err
	}
	kind, err := ParsePropertyKind(sf.Property)
	if err != nil {
		return Segment{}, err
	}
	fn, err := ParseEase(sf.Ease)
	if err != nil {
		return Segment{}, err
	}
	if sf.To.IsZero() {
		return Segment{}, fmt.Errorf("missing to")
	}
	to, err := decodeValue(kind, &sf.To)
	if err != nil {
		return Segment{}, fmt.Errorf("to: %w", err)
	}
	seg := Segment{
		Target:   n,
		Property: kind,
		Start:    sf.At,
		Duration: sf.Duration,
		To:       to,
		Ease:     fn,
	}
	if !sf.From.IsZero() {
		from, err := decodeValue(kind, &sf.From)
		if err != nil {
			return Segment{}, fmt.Errorf("from: %w", err)
		}
		seg.From = &from
	}
	if err := seg.Validate(); err != nil {
		return Segment{}, err
	}
	return seg, nil
}

func (d *Document) buildStagger(sf *staggerFile) ([]Segment, error) {
	targets := make([]Target, 0, len(sf.Targets))
	for _, name := range sf.Targets {
		n, err := d.target(name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, n)
	}
	kind, err := ParsePropertyKind(sf.Property)
	if err != nil {
		return nil, err
	}
	fn, err := ParseEase(sf.Ease)
	if err != nil {
		return nil, err
	}
	if sf.From.IsZero() || sf.To.IsZero() {
		return nil, fmt.Errorf("stagger wants from and to")
	}
	from, err := decodeValue(kind, &sf.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := decodeValue(kind, &sf.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	span := sf.Span
	if span == 0 {
		span = 1 - sf.Start
	}
	st := Stagger{Start: sf.Start, Span: span, Duration: sf.Duration, Ease: fn, BlurFrom: sf.Blur}
	return st.Build(targets, kind, from, to), nil
}

func (d *Document) buildCrossfade(cf *crossfadeFile) ([]Segment, error) {
	if len(cf.Panels) < 2 {
		return nil, fmt.Errorf("want at least two panels")
	}
	panels := make([]Target, 0, len(cf.Panels))
	for _, name := range cf.Panels {
		n, err := d.target(name)
		if err != nil {
			return nil, err
		}
		panels = append(panels, n)
	}
	c := DefaultCrossfade()
	if cf.Hold != nil {
		c.Hold = *cf.Hold
	}
	if cf.Fade != nil {
		c.Fade = *cf.Fade
	}
	if cf.InDelay != nil {
		c.InDelay = *cf.InDelay
	}
	if cf.Blur != nil {
		c.Blur = *cf.Blur
	}
	fn, err := ParseEase(cf.Ease)
	if err != nil {
		return nil, err
	}
	c.Ease = fn
	return c.Build(panels), nil
}

// decodeValue reads a property value: a number for scalar kinds, a two
// element list for size and translate, and a hex string for color.
func decodeValue(kind PropertyKind, node *yaml.Node) (Value, error) {
	switch {
	case kind == PropColor:
		var s string
		if err := node.Decode(&s); err != nil {
			return Value{}, err
		}
		c, err := ParseColor(s)
		if err != nil {
			return Value{}, err
		}
		return RGBA(c), nil
	case kind.IsVector():
		var v []float64
		if err := node.Decode(&v); err != nil {
			return Value{}, err
		}
		if len(v) != 2 {
			return Value{}, fmt.Errorf("%s wants [x, y], got %d numbers", kind, len(v))
		}
		return Vec(v[0], v[1]), nil
	default:
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}
		return Scalar(f), nil
	}
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}
