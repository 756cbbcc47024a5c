package bytecode

import "encoding/binary"

// PutI32 stores v in the first four bytes of b, little-endian.
func PutI32(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// I32 reads a little-endian signed 32-bit value from the first four bytes of b.
func I32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}
