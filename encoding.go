package ckpt

import (
	"encoding/binary"
)

// String encoding tags.
const (
	StringNull  byte = 0
	StringEmpty byte = 1
	StringUTF8  byte = 3
)

func appendUint64(buf []byte, v uint64) []byte {
	off, buf := grow(buf, 8)
	buf[off+0] = byte(v >> 56)
	buf[off+1] = byte(v >> 48)
	buf[off+2] = byte(v >> 40)
	buf[off+3] = byte(v >> 32)
	buf[off+4] = byte(v >> 24)
	buf[off+5] = byte(v >> 16)
	buf[off+6] = byte(v >> 8)
	buf[off+7] = byte(v)
	return buf
}

func appendUint32(buf []byte, v uint32) []byte {
	off, buf := grow(buf, 4)
	putUint32(buf[off:], v)
	return buf
}

func putUint32(buf []byte, v uint32) {
	buf[0] = byte(v >> 24)
	buf[1] = byte(v >> 16)
	buf[2] = byte(v >> 8)
	buf[3] = byte(v)
}

func appendUint8(buf []byte, v uint8) []byte {
	off, buf := grow(buf, 1)
	buf[off] = v
	return buf
}

func appendUvarint(buf []byte, v uint64) []byte {
	off, buf := grow(buf, binary.MaxVarintLen64)
	off += binary.PutUvarint(buf[off:], v)
	return buf[:off]
}

func appendString(buf []byte, v string) []byte {
	if v == "" {
		return appendUint8(buf, StringEmpty)
	}
	buf = appendUint8(buf, StringUTF8)
	buf = appendUvarint(buf, uint64(len(v)))
	off, buf := grow(buf, len(v))
	copy(buf[off:], v)
	return buf
}
