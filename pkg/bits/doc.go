// Package bits implements fixed-width, multi-word bit containers used as
// keys and prefix masks throughout the lookup engine: [Bits] stores a key of
// a width f fixed at construction; [Mask] is an alias of Bits with the same
// width, not a shorter type, in which every bit outside the selected prefix
// is zero. Both use the same word layout: ⌈f/64⌉ 64-bit words whatever the
// caller's word width w, most-significant word first, bits numbered
// MSB-first within each word. w only affects the byte codecs.
package bits
