package render

import (
	"fmt"
	"image/color"
)

// Op names a recorded canvas call.
type Op int

const (
	OpSetColor Op = iota
	OpSetTransform
	OpResetTransform
	OpCircle
	OpRect
	OpBeginPath
	OpMoveTo
	OpLineTo
	OpFill
)

var opNames = [...]string{
	OpSetColor:       "set_color",
	OpSetTransform:   "set_transform",
	OpResetTransform: "reset_transform",
	OpCircle:         "circle",
	OpRect:           "rect",
	OpBeginPath:      "begin_path",
	OpMoveTo:         "move_to",
	OpLineTo:         "line_to",
	OpFill:           "fill",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Command is one recorded canvas call. Args holds the numeric arguments in
// call order; Color is set for OpSetColor.
type Command struct {
	Op    Op
	Args  []float64
	Color color.RGBA
}

// Recorder is a Canvas that keeps every call for later inspection.
type Recorder struct {
	Commands []Command
}

var _ Canvas = (*Recorder)(nil)

func (r *Recorder) SetColor(c color.RGBA) {
	r.Commands = append(r.Commands, Command{Op: OpSetColor, Color: c})
}

func (r *Recorder) SetTransform(a, b, c, d, e, f float64) {
	r.record(OpSetTransform, a, b, c, d, e, f)
}

func (r *Recorder) ResetTransform() {
	r.record(OpResetTransform)
}

func (r *Recorder) DrawCircle(x, y, radius float64) {
	r.record(OpCircle, x, y, radius)
}

func (r *Recorder) DrawRect(x, y, w, h float64) {
	r.record(OpRect, x, y, w, h)
}

func (r *Recorder) BeginPath() {
	r.record(OpBeginPath)
}

func (r *Recorder) MoveTo(x, y float64) {
	r.record(OpMoveTo, x, y)
}

func (r *Recorder) LineTo(x, y float64) {
	r.record(OpLineTo, x, y)
}

func (r *Recorder) Fill() {
	r.record(OpFill)
}

// Reset drops every recorded command.
func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
}

// Count returns how many commands of op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the recorded commands of op in order.
func (r *Recorder) Filter(op Op) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) record(op Op, args ...float64) {
	r.Commands = append(r.Commands, Command{Op: op, Args: args})
}
