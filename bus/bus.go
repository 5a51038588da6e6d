// Package bus provides the memory collaborator contract for the CPU core,
// together with its backing-store implementations. Address decoding,
// mirroring, bank switching and memory-mapped peripherals belong behind
// this interface, not in the CPU.
package bus

// Bus is the read/write contract between the CPU core and system memory.
// The address domain is fixed when the implementation is constructed.
type Bus interface {
	// Read returns the byte at addr.
	Read(addr uint16) uint8
	// Write stores data at addr.
	Write(addr uint16, data uint8)
}
