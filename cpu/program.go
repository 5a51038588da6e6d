package cpu

import (
	"iter"
)

// Statement is one assembled source line: the address it was placed at,
// the words it was parsed from, and the bytes it generated.
type Statement struct {
	LineNo    int
	Addr      int
	Words     []string
	Bytes     []uint8
	LinkLabel string
}

// Program is an assembled listing.
type Program struct {
	Statements []Statement
}

// Debug points back into the listing for one address.
type Debug struct {
	*Statement
	Offset int
}

// Debug locates the statement covering addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n := range prog.Statements {
		st := &prog.Statements[n]
		if int(addr) >= st.Addr && int(addr) < st.Addr+len(st.Bytes) {
			dbg = Debug{
				Statement: st,
				Offset:    int(addr) - st.Addr,
			}
			break
		}
	}

	return
}

// Binary flattens the listing into a memory image based at 0x0000, with
// gaps between statements zero-filled.
func (prog *Program) Binary() (image []uint8) {
	for addr, data := range prog.Bytes() {
		for len(image) < int(addr) {
			image = append(image, 0)
		}
		image = append(image, data)
	}

	return
}

// Bytes iterates over the (address, byte) pairs of the assembled image.
func (prog *Program) Bytes() iter.Seq2[uint16, uint8] {
	return func(yield func(addr uint16, data uint8) bool) {
		for _, st := range prog.Statements {
			for n, data := range st.Bytes {
				if !yield(uint16(st.Addr+n), data) {
					return
				}
			}
		}
	}
}
