package surface

// Op identifies a recorded drawing call.
type Op int

const (
	OpClear Op = iota
	OpRect
	OpArc
)

// Call is one recorded fill or clear.
type Call struct {
	Op         Op
	X, Y, W, H float64
	R          float64
	Start, End float64
	Alpha      float64 // global alpha in effect, unclamped
}

// Recorder is a Surface that remembers every call so tests can inspect a
// frame.
type Recorder struct {
	BufferWidth, BufferHeight int
	Scale                     float64
	Calls                     []Call

	alpha float64
}

// NewRecorder creates an empty recorder with scale 1 and alpha 1.
func NewRecorder() *Recorder {
	return &Recorder{Scale: 1, alpha: 1}
}

func (r *Recorder) SetBufferSize(w, h int) { r.BufferWidth, r.BufferHeight = w, h }

func (r *Recorder) SetScale(s float64) { r.Scale = s }

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.Calls = append(r.Calls, Call{Op: OpClear, X: x, Y: y, W: w, H: h, Alpha: r.alpha})
}

func (r *Recorder) SetGlobalAlpha(a float64) { r.alpha = a }

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.Calls = append(r.Calls, Call{Op: OpRect, X: x, Y: y, W: w, H: h, Alpha: r.alpha})
}

func (r *Recorder) FillArc(x, y, rad, start, end float64) {
	r.Calls = append(r.Calls, Call{Op: OpArc, X: x, Y: y, R: rad, Start: start, End: end, Alpha: r.alpha})
}

// Fills returns the recorded rect and arc calls, skipping clears.
func (r *Recorder) Fills() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op != OpClear {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }
