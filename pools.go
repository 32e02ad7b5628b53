package ckpt

import "sync"

var compressedBytesPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 65536)
	},
}

func releaseCompressedBytes(b []byte) {
	compressedBytesPool.Put(b[:0])
}
