package cpu

// HistorySize is the number of executed instructions kept for inspection.
const HistorySize = 100

// Trace is an executed instruction and the address it was fetched from.
type Trace struct {
	Address     uint16
	Instruction Instruction
}

// history is a ring buffer of the most recently executed instructions.
type history struct {
	entries [HistorySize]Trace
	next    int
	size    int
}

func (h *history) add(t Trace) {
	h.entries[h.next] = t
	h.next = (h.next + 1) % HistorySize
	if h.size < HistorySize {
		h.size++
	}
}

// list returns the entries, most recent first.
func (h *history) list() []Trace {
	result := make([]Trace, 0, h.size)
	for i := 1; i <= h.size; i++ {
		idx := (h.next - i + HistorySize) % HistorySize
		result = append(result, h.entries[idx])
	}
	return result
}

func (h *history) clear() {
	*h = history{}
}
