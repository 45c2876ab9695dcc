package display

import "image/color"

// OpKind identifies a recorded draw command.
type OpKind string

const (
	OpFillRect OpKind = "FILL_RECT"
	OpDrawRect OpKind = "DRAW_RECT"
	OpLine     OpKind = "LINE"
	OpText     OpKind = "TEXT"
)

// Op is one recorded draw command.
type Op struct {
	Kind   OpKind
	X, Y   int16
	W, H   int16 // FillRect, DrawRect
	X1, Y1 int16 // Line end point
	Text   string
	Font   Font
	Align  Align
	Color  color.RGBA
}

// Recorder is a Surface that records draw commands for test assertions.
type Recorder struct {
	// Ops contains every command since the last Reset.
	Ops []Op

	// Flushes counts Flush calls.
	Flushes int

	// Blanked tracks if Blank was called.
	Blanked bool

	// FlushError, if set, will be returned by Flush.
	FlushError error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) FillRect(x, y, w, h int16, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) DrawRect(x, y, w, h int16, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpDrawRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) DrawLine(x0, y0, x1, y1 int16, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X: x0, Y: y0, X1: x1, Y1: y1, Color: c})
}

func (r *Recorder) DrawText(x, y int16, text string, font Font, align Align, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X: x, Y: y, Text: text, Font: font, Align: align, Color: c})
}

// Flush counts the call.
func (r *Recorder) Flush() error {
	if r.FlushError != nil {
		return r.FlushError
	}
	r.Flushes++
	return nil
}

// Blank marks the surface as blanked.
func (r *Recorder) Blank() error {
	r.Blanked = true
	return nil
}

// Texts returns the strings of all recorded text commands, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Reset clears recorded commands.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.Flushes = 0
	r.Blanked = false
	r.FlushError = nil
}

// FakeTouch is a Touch that returns scripted contact samples.
// Each call to Contact consumes the next sample; once exhausted it reports
// no contact.
type FakeTouch struct {
	Samples []TouchSample
	index   int
	Closed  bool
}

// TouchSample is a single scripted Contact result.
type TouchSample struct {
	X, Y    int
	Touched bool
}

// Contact returns the next scripted sample.
func (f *FakeTouch) Contact() (int, int, bool) {
	if f.index >= len(f.Samples) {
		return 0, 0, false
	}
	s := f.Samples[f.index]
	f.index++
	return s.X, s.Y, s.Touched
}

// Close marks the touch panel as closed.
func (f *FakeTouch) Close() error {
	f.Closed = true
	return nil
}
