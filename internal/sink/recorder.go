package sink

import (
	"fmt"
	"strconv"
)

type callKind int

const (
	callPushFloat callKind = iota
	callPushInt
	callDeclareSlot
	callLoad
	callStore
	callEmit
	callDefineLabel
	callMarkLabel
	callBranchIf
	callBranch
)

type call struct {
	kind  callKind
	f     float64
	i     int64
	op    Op
	slot  Slot
	label Label
	sense bool
}

// Recorder is a Sink that only buffers instructions. Code generation writes
// into a Recorder and replays it into the real backend once it succeeded, so
// a failing generation never hands a partial program to the backend.
// Slots and labels handed out by a Recorder are indexes that Replay maps
// onto the target's own handles.
type Recorder struct {
	calls  []call
	slots  int
	labels int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) PushFloat(v float64) { r.calls = append(r.calls, call{kind: callPushFloat, f: v}) }
func (r *Recorder) PushInt(v int64)     { r.calls = append(r.calls, call{kind: callPushInt, i: v}) }

func (r *Recorder) DeclareSlot() Slot {
	s := Slot(r.slots)
	r.slots++
	r.calls = append(r.calls, call{kind: callDeclareSlot, slot: s})
	return s
}

func (r *Recorder) Load(s Slot)  { r.calls = append(r.calls, call{kind: callLoad, slot: s}) }
func (r *Recorder) Store(s Slot) { r.calls = append(r.calls, call{kind: callStore, slot: s}) }
func (r *Recorder) Emit(op Op)   { r.calls = append(r.calls, call{kind: callEmit, op: op}) }

func (r *Recorder) DefineLabel() Label {
	l := Label(r.labels)
	r.labels++
	r.calls = append(r.calls, call{kind: callDefineLabel, label: l})
	return l
}

func (r *Recorder) MarkLabel(l Label) { r.calls = append(r.calls, call{kind: callMarkLabel, label: l}) }

func (r *Recorder) BranchIf(l Label, sense bool) {
	r.calls = append(r.calls, call{kind: callBranchIf, label: l, sense: sense})
}

func (r *Recorder) Branch(l Label) { r.calls = append(r.calls, call{kind: callBranch, label: l}) }

// Seal is not supported on a Recorder; replay it into a real backend.
func (r *Recorder) Seal() (Program, error) {
	return nil, fmt.Errorf("recorder cannot be sealed; replay it into a backend")
}

// Len returns the number of buffered calls.
func (r *Recorder) Len() int { return len(r.calls) }

// Listing renders the buffered calls one per line, e.g. "push.f 2",
// "store 0", "brtrue 1".
func (r *Recorder) Listing() []string {
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.String())
	}
	return out
}

func (c call) String() string {
	switch c.kind {
	case callPushFloat:
		return "push.f " + strconv.FormatFloat(c.f, 'g', -1, 64)
	case callPushInt:
		return "push.i " + strconv.FormatInt(c.i, 10)
	case callDeclareSlot:
		return fmt.Sprintf("slot %d", c.slot)
	case callLoad:
		return fmt.Sprintf("load %d", c.slot)
	case callStore:
		return fmt.Sprintf("store %d", c.slot)
	case callEmit:
		return c.op.String()
	case callDefineLabel:
		return fmt.Sprintf("label %d", c.label)
	case callMarkLabel:
		return fmt.Sprintf("mark %d", c.label)
	case callBranchIf:
		if c.sense {
			return fmt.Sprintf("brtrue %d", c.label)
		}
		return fmt.Sprintf("brfalse %d", c.label)
	}
	return fmt.Sprintf("br %d", c.label)
}

// Replay forwards every buffered call to dst in order.
func (r *Recorder) Replay(dst Sink) error {
	slots := make([]Slot, r.slots)
	labels := make([]Label, r.labels)
	declaredSlots := make([]bool, r.slots)
	definedLabels := make([]bool, r.labels)

	slot := func(s Slot) (Slot, error) {
		if int(s) < 0 || int(s) >= len(slots) || !declaredSlots[s] {
			return 0, fmt.Errorf("slot %d used before declaration", s)
		}
		return slots[s], nil
	}
	label := func(l Label) (Label, error) {
		if int(l) < 0 || int(l) >= len(labels) || !definedLabels[l] {
			return 0, fmt.Errorf("label %d used before definition", l)
		}
		return labels[l], nil
	}

	for _, c := range r.calls {
		switch c.kind {
		case callPushFloat:
			dst.PushFloat(c.f)
		case callPushInt:
			dst.PushInt(c.i)
		case callDeclareSlot:
			slots[c.slot] = dst.DeclareSlot()
			declaredSlots[c.slot] = true
		case callLoad, callStore:
			s, err := slot(c.slot)
			if err != nil {
				return err
			}
			if c.kind == callLoad {
				dst.Load(s)
			} else {
				dst.Store(s)
			}
		case callEmit:
			dst.Emit(c.op)
		case callDefineLabel:
			labels[c.label] = dst.DefineLabel()
			definedLabels[c.label] = true
		case callMarkLabel, callBranchIf, callBranch:
			l, err := label(c.label)
			if err != nil {
				return err
			}
			switch c.kind {
			case callMarkLabel:
				dst.MarkLabel(l)
			case callBranchIf:
				dst.BranchIf(l, c.sense)
			default:
				dst.Branch(l)
			}
		}
	}
	return nil
}
