package ckpt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Envelope layout:
//
//   - header = magic:64 version:8 flags:8 pad:16 poolCount:32 directoryLen:32
//     payloadLen:32 storedLen:32 pad:32 timestamp:64 checksum:64 (little-endian)
//   - directory = msgpack(envelopeDirectory)
//   - payload = pools, zstd-compressed if flags has EnvelopeFlagZstd
//
// The checksum is xxhash64 over the header up to the checksum, followed by
// the directory and the stored payload.
const (
	EnvelopeMagic         = 0x4c4f4f5054504b43 // "CKPTPOOL" as little-endian uint64
	EnvelopeVersion uint8 = 0

	EnvelopeFlagZstd uint8 = 1 << 0

	EnvelopeHeaderSize = 48
)

type EnvelopeHeader struct {
	Magic        uint64
	Version      uint8
	Flags        uint8
	_            uint16
	PoolCount    uint32
	DirectoryLen uint32
	PayloadLen   uint32
	StoredLen    uint32
	_            uint32
	Timestamp    int64
	Checksum     uint64
}

var (
	ErrNotEnvelope        = errors.New("not a checkpoint envelope")
	ErrUnsupportedVersion = errors.New("unsupported checkpoint envelope version")
	ErrCorruptedEnvelope  = errors.New("corrupted checkpoint envelope")
)

// Envelope is a decoded and verified envelope.
type Envelope struct {
	Header  EnvelopeHeader
	Pools   []PoolInfo
	Payload []byte
}

type envelopeDirectory struct {
	Pools []PoolInfo `msgpack:"p"`
}

// EncodeAll and DecodeAll on shared coders are safe for concurrent use
var (
	zstdEncoder = must(zstd.NewWriter(nil))
	zstdDecoder = must(zstd.NewReader(nil))
)

// Finish encodes the checkpoint into its envelope. The checkpoint stays
// usable; calling Finish again after more pools re-encodes everything.
func (cp *Checkpoint) Finish() ([]byte, error) {
	dir, err := msgpack.Marshal(&envelopeDirectory{Pools: cp.pools})
	if err != nil {
		return nil, fmt.Errorf("ckpt: encoding directory: %w", err)
	}

	payload := cp.w.Bytes()
	stored := payload
	var flags uint8
	if cp.compression == ZstdCompression {
		stored = zstdEncoder.EncodeAll(payload, compressedBytesPool.Get().([]byte))
		defer releaseCompressedBytes(stored)
		flags |= EnvelopeFlagZstd
	}

	for _, n := range []int{len(dir), len(payload), len(stored)} {
		if uint64(n) > math.MaxUint32 {
			return nil, fmt.Errorf("ckpt: envelope section of %d bytes exceeds the 4 GiB limit", n)
		}
	}

	h := EnvelopeHeader{
		Magic:        EnvelopeMagic,
		Version:      EnvelopeVersion,
		Flags:        flags,
		PoolCount:    uint32(len(cp.pools)),
		DirectoryLen: uint32(len(dir)),
		PayloadLen:   uint32(len(payload)),
		StoredLen:    uint32(len(stored)),
		Timestamp:    cp.started.UnixNano(),
	}

	buf := make([]byte, EnvelopeHeaderSize, EnvelopeHeaderSize+len(dir)+len(stored))
	if n := must(binary.Encode(buf, binary.LittleEndian, &h)); n != EnvelopeHeaderSize {
		panic("internal size mismatch")
	}
	buf = append(buf, dir...)
	buf = append(buf, stored...)

	sum := envelopeChecksum(buf)
	binary.LittleEndian.PutUint64(buf[EnvelopeHeaderSize-8:], sum)

	if cp.verbose {
		cp.logger.LogAttrs(cp.context, slog.LevelDebug, "ckpt: finished", slog.Int("pools", len(cp.pools)), slog.Int("payload", len(payload)), slog.Int("stored", len(stored)), slog.Int("total", len(buf)), slog.String("checksum", fmt.Sprintf("%016x", sum)))
	}
	return buf, nil
}

func envelopeChecksum(envelope []byte) uint64 {
	var hash xxhash.Digest
	hash.Reset()
	hash.Write(envelope[:EnvelopeHeaderSize-8])
	hash.Write(envelope[EnvelopeHeaderSize:])
	return hash.Sum64()
}

// DecodeEnvelope verifies the checksum of an envelope produced by Finish and
// decodes its directory and payload. An uncompressed payload aliases data.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	if len(data) < EnvelopeHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrNotEnvelope, len(data), EnvelopeHeaderSize)
	}
	env := &Envelope{}
	h := &env.Header
	must(binary.Decode(data, binary.LittleEndian, h))
	if h.Magic != EnvelopeMagic {
		return nil, fmt.Errorf("%w: magic %016x", ErrNotEnvelope, h.Magic)
	}
	if h.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	rest := data[EnvelopeHeaderSize:]
	if uint64(len(rest)) != uint64(h.DirectoryLen)+uint64(h.StoredLen) {
		return nil, fmt.Errorf("%w: %d bytes after header, wanted %d + %d", ErrCorruptedEnvelope, len(rest), h.DirectoryLen, h.StoredLen)
	}
	if sum := envelopeChecksum(data); sum != h.Checksum {
		return nil, fmt.Errorf("%w: checksum %016x, header says %016x", ErrCorruptedEnvelope, sum, h.Checksum)
	}

	var dir envelopeDirectory
	if err := msgpack.Unmarshal(rest[:h.DirectoryLen], &dir); err != nil {
		return nil, fmt.Errorf("%w: directory: %v", ErrCorruptedEnvelope, err)
	}
	if uint32(len(dir.Pools)) != h.PoolCount {
		return nil, fmt.Errorf("%w: directory lists %d pools, header says %d", ErrCorruptedEnvelope, len(dir.Pools), h.PoolCount)
	}
	env.Pools = dir.Pools

	stored := rest[h.DirectoryLen:]
	switch h.Flags {
	case 0:
		env.Payload = stored
	case EnvelopeFlagZstd:
		payload, err := zstdDecoder.DecodeAll(stored, make([]byte, 0, h.PayloadLen))
		if err != nil {
			return nil, fmt.Errorf("%w: payload: %v", ErrCorruptedEnvelope, err)
		}
		env.Payload = payload
	default:
		return nil, fmt.Errorf("%w: flags %02x", ErrUnsupportedVersion, h.Flags)
	}
	if uint64(len(env.Payload)) != uint64(h.PayloadLen) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorruptedEnvelope, len(env.Payload), h.PayloadLen)
	}
	return env, nil
}
