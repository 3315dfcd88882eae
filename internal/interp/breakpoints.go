package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// Breakpoint stops an execution at one pause point of one script.
type Breakpoint struct {
	ID     int
	Script *Script
	Point  Point
	States State
}

// Summary returns a string representation of the breakpoint.
func (bp *Breakpoint) Summary() string {
	if bp == nil {
		return "<nil>"
	}
	name := "<script>"
	if bp.Script != nil {
		name = bp.Script.Name()
	}
	return fmt.Sprintf("#%d %s:%d:%d [%s]", bp.ID, name, bp.Point.Line, bp.Point.Column, bp.States)
}

// Breakpoints manages a collection of breakpoints.
type Breakpoints struct {
	nextID int
	list   []*Breakpoint
}

func newBreakpoints() *Breakpoints {
	return &Breakpoints{nextID: 1}
}

// set stores bp, replacing any breakpoint with the same id. Id 0 allocates
// a fresh one.
func (bps *Breakpoints) set(bp *Breakpoint) *Breakpoint {
	if bp.ID <= 0 {
		bp.ID = bps.allocID()
	} else if bp.ID >= bps.nextID {
		bps.nextID = bp.ID + 1
	}
	for i, old := range bps.list {
		if old.ID == bp.ID {
			bps.list[i] = bp
			return bp
		}
	}
	bps.list = append(bps.list, bp)
	return bp
}

// Delete removes a breakpoint by ID.
func (bps *Breakpoints) Delete(id int) bool {
	if bps == nil || id <= 0 {
		return false
	}
	for i, bp := range bps.list {
		if bp != nil && bp.ID == id {
			copy(bps.list[i:], bps.list[i+1:])
			bps.list[len(bps.list)-1] = nil
			bps.list = bps.list[:len(bps.list)-1]
			return true
		}
	}
	return false
}

// List returns all breakpoints.
func (bps *Breakpoints) List() []*Breakpoint {
	if bps == nil || len(bps.list) == 0 {
		return nil
	}
	out := make([]*Breakpoint, 0, len(bps.list))
	out = append(out, bps.list...)
	return out
}

// match checks if any breakpoint covers the pause point in state st.
func (bps *Breakpoints) match(s *Script, point int, st State) (*Breakpoint, bool) {
	for _, bp := range bps.list {
		if bp.Script == s && bp.Point.ID == point && bp.States&st != 0 {
			return bp, true
		}
	}
	return nil, false
}

func (bps *Breakpoints) allocID() int {
	if bps.nextID <= 0 {
		bps.nextID = 1
	}
	id := bps.nextID
	bps.nextID++
	return id
}

// ParseLineColSpec parses "line" or "line:col". A missing column is 0,
// which selects the first pause point on the line.
func ParseLineColSpec(spec string) (line, col int, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, fmt.Errorf("empty spec")
	}
	lineStr, colStr, hasCol := strings.Cut(spec, ":")
	line, err = strconv.Atoi(lineStr)
	if err != nil || line <= 0 {
		return 0, 0, fmt.Errorf("invalid line %q", lineStr)
	}
	if hasCol {
		col, err = strconv.Atoi(colStr)
		if err != nil || col <= 0 {
			return 0, 0, fmt.Errorf("invalid column %q", colStr)
		}
	}
	return line, col, nil
}
