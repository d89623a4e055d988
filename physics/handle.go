package physics

import "strconv"

// BodyHandle is an arena-style reference to a body owned by a World. The low
// 32 bits hold the slot index (starting at 1) and the high 32 bits hold the
// slot generation, so a handle that outlives its body never resolves to the
// body that later reuses the slot.
type BodyHandle uint64

type slotIndex uint32
type generation uint32

const slotIndexBits = 32

func makeHandle(idx slotIndex, gen generation) BodyHandle {
	return BodyHandle(uint64(gen)<<slotIndexBits | uint64(idx))
}

func (h BodyHandle) index() slotIndex {
	return slotIndex(uint32(h))
}

func (h BodyHandle) generation() generation {
	return generation(uint32(uint64(h) >> slotIndexBits))
}

func (h BodyHandle) String() string {
	return strconv.FormatUint(uint64(h.index()), 10) + "v" + strconv.FormatUint(uint64(h.generation()), 10)
}

// Valid reports whether the handle could refer to a body at all. The zero
// handle never does.
func (h BodyHandle) Valid() bool {
	return h.index() > 0
}

type bodySlot struct {
	gen generation
	rec *bodyRecord
}

// bodyStore tracks slot generations and free slots.
type bodyStore struct {
	slots []bodySlot
	free  []slotIndex
	live  int
}

func (s *bodyStore) insert(rec *bodyRecord) BodyHandle {
	var idx slotIndex
	if len(s.free) > 0 {
		idx = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.slots = append(s.slots, bodySlot{})
		idx = slotIndex(len(s.slots))
	}
	slot := &s.slots[idx-1]
	slot.rec = rec
	s.live++
	return makeHandle(idx, slot.gen)
}

func (s *bodyStore) get(h BodyHandle) (*bodyRecord, bool) {
	idx := h.index()
	if idx == 0 || int(idx) > len(s.slots) {
		return nil, false
	}
	slot := s.slots[idx-1]
	if slot.rec == nil || slot.gen != h.generation() {
		return nil, false
	}
	return slot.rec, true
}

func (s *bodyStore) remove(h BodyHandle) (*bodyRecord, bool) {
	rec, ok := s.get(h)
	if !ok {
		return nil, false
	}
	idx := h.index()
	slot := &s.slots[idx-1]
	slot.rec = nil
	slot.gen++
	s.free = append(s.free, idx)
	s.live--
	return rec, true
}

func (s *bodyStore) len() int {
	return s.live
}
