package vecfile

import "encoding/binary"

// Codec encodes and decodes a fixed-size value V to and from a byte slice
// of exactly Size() bytes. Implementations must be side-effect-free and
// Size() must be constant for a given V.
type Codec[V any] interface {
	Size() int
	Encode(v V, dst []byte)
	Decode(src []byte) V
}

// Uint32Codec encodes V as a little-endian uint32.
type Uint32Codec struct{}

func (Uint32Codec) Size() int { return 4 }

func (Uint32Codec) Encode(v uint32, dst []byte) { binary.LittleEndian.PutUint32(dst, v) }

func (Uint32Codec) Decode(src []byte) uint32 { return binary.LittleEndian.Uint32(src) }

// Uint64Codec encodes V as a little-endian uint64.
type Uint64Codec struct{}

func (Uint64Codec) Size() int { return 8 }

func (Uint64Codec) Encode(v uint64, dst []byte) { binary.LittleEndian.PutUint64(dst, v) }

func (Uint64Codec) Decode(src []byte) uint64 { return binary.LittleEndian.Uint64(src) }

// Int64Codec encodes V as a little-endian int64.
type Int64Codec struct{}

func (Int64Codec) Size() int { return 8 }

func (Int64Codec) Encode(v int64, dst []byte) { binary.LittleEndian.PutUint64(dst, uint64(v)) }

func (Int64Codec) Decode(src []byte) int64 { return int64(binary.LittleEndian.Uint64(src)) }
