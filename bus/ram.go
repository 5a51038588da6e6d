package bus

// Ram is a flat byte store with a fixed address space, zeroed at
// creation. A full LR35902 system uses the complete 65536-byte space.
type Ram struct {
	data []uint8
}

var _ Bus = (*Ram)(nil)

// NewRam creates a Ram with the given address-space size.
func NewRam(size uint) (ram *Ram) {
	return &Ram{
		data: make([]uint8, size),
	}
}

// Size returns the address-space size.
func (ram *Ram) Size() uint {
	return uint(len(ram.data))
}

// Read returns the byte at addr. addr must be inside the address space.
func (ram *Ram) Read(addr uint16) uint8 {
	return ram.data[addr]
}

// Write stores data at addr. addr must be inside the address space.
func (ram *Ram) Write(addr uint16, data uint8) {
	ram.data[addr] = data
}

// Reset zeroes the entire address space.
func (ram *Ram) Reset() {
	clear(ram.data)
}

// Load copies an image into the address space starting at addr.
func (ram *Ram) Load(addr uint16, image []uint8) {
	copy(ram.data[addr:], image)
}
