package atlas

import "math"

// skylineNode is one horizontal segment of the current skyline profile: it
// spans [x, x+width) at height y.
type skylineNode struct {
	x, y, width int
}

// skyline implements bottom-left skyline bin packing (§4.12 step 4): each
// rectangle is placed at the lowest-then-leftmost position where it fits
// within the bin's width, and the profile is updated in place. Packing
// order is caller-controlled and deterministic (largest-height first, tie
// broken by original sprite index), which makes repeated packs of the same
// input byte-identical (§8 invariant 8).
type skyline struct {
	binWidth int
	nodes    []skylineNode
}

func newSkyline(binWidth int) *skyline {
	return &skyline{binWidth: binWidth, nodes: []skylineNode{{x: 0, y: 0, width: binWidth}}}
}

// place finds the bottom-left position for a w x h rectangle and commits
// it to the skyline. ok is false if the rectangle cannot fit the bin width
// at all (never true once the bin is well-formed, since every candidate
// width is <= binWidth by construction in Pack).
func (s *skyline) place(w, h int) (x, y int, ok bool) {
	bestIdx, bestX, bestY, found := s.bestFit(w)
	if !found {
		return 0, 0, false
	}
	s.insert(bestIdx, bestX, bestY+h, w)
	return bestX, bestY, true
}

func (s *skyline) bestFit(w int) (idx, x, y int, ok bool) {
	bestY := math.MaxInt
	bestX := math.MaxInt
	bestIdx := -1
	for i := range s.nodes {
		fx, fy, fits := s.fitAt(i, w)
		if !fits {
			continue
		}
		if fy < bestY || (fy == bestY && fx < bestX) {
			bestY, bestX, bestIdx = fy, fx, i
		}
	}
	if bestIdx < 0 {
		return 0, 0, 0, false
	}
	return bestIdx, bestX, bestY, true
}

// fitAt computes the placement y if the rectangle's left edge starts at
// node i, and whether it fits within the bin width from there.
func (s *skyline) fitAt(i, w int) (x, y int, ok bool) {
	x = s.nodes[i].x
	if x+w > s.binWidth {
		return 0, 0, false
	}
	widthLeft := w
	y = 0
	j := i
	for widthLeft > 0 {
		if j >= len(s.nodes) {
			return 0, 0, false
		}
		if s.nodes[j].y > y {
			y = s.nodes[j].y
		}
		widthLeft -= s.nodes[j].width
		j++
	}
	return x, y, true
}

// insert replaces the skyline segments spanned by [x, x+w) with a single
// new segment at height newY, then merges adjacent equal-height segments.
func (s *skyline) insert(startIdx, x, newY, w int) {
	newNode := skylineNode{x: x, y: newY, width: w}

	var out []skylineNode
	out = append(out, s.nodes[:startIdx]...)
	out = append(out, newNode)

	right := x + w
	for j := startIdx; j < len(s.nodes); j++ {
		n := s.nodes[j]
		nRight := n.x + n.width
		if nRight <= right {
			continue // fully covered by the new segment
		}
		if n.x < right {
			// Partially covered: keep the remainder to the right.
			out = append(out, skylineNode{x: right, y: n.y, width: nRight - right})
			continue
		}
		out = append(out, n)
	}
	s.nodes = mergeAdjacent(out)
}

func mergeAdjacent(nodes []skylineNode) []skylineNode {
	if len(nodes) == 0 {
		return nodes
	}
	out := nodes[:1]
	for _, n := range nodes[1:] {
		last := &out[len(out)-1]
		if last.y == n.y && last.x+last.width == n.x {
			last.width += n.width
			continue
		}
		out = append(out, n)
	}
	return out
}

// height returns the current skyline's tallest point, i.e. the minimum bin
// height that accommodates everything placed so far.
func (s *skyline) height() int {
	h := 0
	for _, n := range s.nodes {
		if n.y > h {
			h = n.y
		}
	}
	return h
}
