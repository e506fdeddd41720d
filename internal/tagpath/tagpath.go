// Package tagpath models a location in a nested-tag document as a
// fixed-capacity ordered sequence of tag names.
package tagpath

import "strings"

// MaxDepth is the number of tag slots in every Path.
const MaxDepth = 8

// Path is an ordered sequence of at most MaxDepth tags. Unused trailing slots
// hold the empty tag, so two paths compare equal slot by slot.
type Path struct {
	tags  [MaxDepth]string
	depth uint8
}

// New builds a path from tags. Tags past MaxDepth are dropped.
func New(tags ...string) Path {
	var p Path
	for _, tag := range tags {
		if int(p.depth) == MaxDepth {
			break
		}
		p.tags[p.depth] = tag
		p.depth++
	}
	return p
}

// Child returns parent extended with one more tag.
func Child(parent Path, tag string) Path {
	return Join(parent, New(tag))
}

// Join returns a path holding the tags of a followed by the tags of b.
// The resulting depth is depth(a)+depth(b), capped at MaxDepth.
func Join(a, b Path) Path {
	out := a
	for i := 0; i < b.Depth() && int(out.depth) < MaxDepth; i++ {
		out.tags[out.depth] = b.tags[i]
		out.depth++
	}
	return out
}

// Depth returns the number of tags set by construction.
func (p Path) Depth() int { return int(p.depth) }

// Tag returns the tag at depth, or the empty tag when depth is outside the path.
func (p Path) Tag(depth int) string {
	if depth < 0 || depth >= MaxDepth {
		return ""
	}
	return p.tags[depth]
}

// IsEmpty reports whether the slot at depth holds the empty tag.
func (p Path) IsEmpty(depth int) bool {
	return p.Tag(depth) == ""
}

// Last returns the deepest tag of the path.
func (p Path) Last() string {
	if p.depth == 0 {
		return ""
	}
	return p.tags[p.depth-1]
}

// Equal reports whether all slots of p and q match.
func (p Path) Equal(q Path) bool {
	return p.tags == q.tags
}

// Pad returns p with its depth raised to depth. The added slots are empty.
func (p Path) Pad(depth int) Path {
	depth = min(depth, MaxDepth)
	if depth > int(p.depth) {
		p.depth = uint8(depth)
	}
	return p
}

// String renders the path as /a/b/c.
func (p Path) String() string {
	var b strings.Builder
	for i := 0; i < int(p.depth); i++ {
		b.WriteByte('/')
		b.WriteString(p.tags[i])
	}
	return b.String()
}
