package vecfile

import "github.com/calvinalkan/hloo/pkg/bits"

// Item is a single (key, value) pair to be inserted into a File.
type Item[V any] struct {
	Key   bits.Bits
	Value V
}
