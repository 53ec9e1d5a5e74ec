package vecfile

import "encoding/binary"

// headerSize is the fixed 16-byte header: [u64 signature][u64 length].
const headerSize = 16

type header struct {
	Signature uint64
	Length    uint64 // element count
}

func decodeHeader(buf []byte) header {
	return header{
		Signature: binary.LittleEndian.Uint64(buf[0:8]),
		Length:    binary.LittleEndian.Uint64(buf[8:16]),
	}
}

func (h header) encode(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], h.Signature)
	binary.LittleEndian.PutUint64(buf[8:16], h.Length)
}
