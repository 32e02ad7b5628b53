package ckpt

import (
	"context"
	"encoding/binary"
	"log/slog"
	"time"
)

type Compression uint8

const (
	NoCompression Compression = iota
	ZstdCompression
)

type Options struct {
	Context context.Context
	Logger  *slog.Logger
	Now     func() time.Time

	// InitialCapacity is the initial size of the writer buffer.
	InitialCapacity int

	// Compression applies to the payload in Finish.
	Compression Compression

	Verbose bool
}

const DefaultInitialCapacity = 16 * 1024

// PoolInfo records where one serializer's pool ended up. A pool that was
// rolled back is recorded with Present == false and no bytes.
type PoolInfo struct {
	TypeID     TypeID      `msgpack:"t"`
	Name       string      `msgpack:"n"`
	Present    bool        `msgpack:"p"`
	Offset     uint32      `msgpack:"o"`
	Size       uint32      `msgpack:"s"`
	Count      uint32      `msgpack:"c"`
	Descriptor *Descriptor `msgpack:"d,omitempty"`
}

// Checkpoint runs serializers against one Writer and keeps a directory of
// the pools they produced. Like Writer, it belongs to a single goroutine.
type Checkpoint struct {
	context     context.Context
	logger      *slog.Logger
	now         func() time.Time
	compression Compression
	verbose     bool

	w       *Writer
	started time.Time
	pools   []PoolInfo
	written map[TypeID]bool
}

func New(o Options) *Checkpoint {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.InitialCapacity == 0 {
		o.InitialCapacity = DefaultInitialCapacity
	}
	return &Checkpoint{
		context:     o.Context,
		logger:      o.Logger,
		now:         o.Now,
		compression: o.Compression,
		verbose:     o.Verbose,
		w:           NewWriter(o.InitialCapacity),
		started:     o.Now(),
		written:     make(map[TypeID]bool),
	}
}

func (cp *Checkpoint) Writer() *Writer {
	return cp.w
}

// Payload returns the pools written so far, back to back.
func (cp *Checkpoint) Payload() []byte {
	return cp.w.Bytes()
}

func (cp *Checkpoint) Pools() []PoolInfo {
	return cp.pools
}

// Serialize runs s as the serializer of id. Each id can be written at most
// once per checkpoint.
func (cp *Checkpoint) Serialize(id TypeID, s Serializer) PoolInfo {
	if cp.written[id] {
		fatalf("Serialize", "%v already written in this checkpoint", id)
	}
	cp.written[id] = true

	start := cp.w.Len()
	s.Serialize(cp.w)
	end := cp.w.Len()
	if end < start {
		fatalf("Serialize", "%v serializer rewound past its own start (%d < %d)", id, end, start)
	}

	info := PoolInfo{
		TypeID: id,
		Name:   id.String(),
		Offset: uint32(start),
	}
	if end > start {
		if end-start < 4 {
			fatalf("Serialize", "%v serializer wrote %d bytes, not a pool", id, end-start)
		}
		info.Present = true
		info.Size = uint32(end - start)
		info.Count = binary.BigEndian.Uint32(cp.w.Bytes()[start:])
	}
	if d, ok := s.(Describer); ok {
		desc := d.Describe()
		info.Descriptor = &desc
	}
	cp.pools = append(cp.pools, info)

	if cp.verbose {
		cp.logger.LogAttrs(cp.context, slog.LevelDebug, "ckpt: pool", slog.String("type", info.Name), slog.Bool("present", info.Present), slog.Uint64("count", uint64(info.Count)), slog.Uint64("size", uint64(info.Size)))
	}
	return info
}

// SerializeAll writes the serializers of set for the given ids, in order.
// With no ids, DefaultOrder is used. Ids missing from set are skipped.
func (cp *Checkpoint) SerializeAll(set *Set, order ...TypeID) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	for _, id := range order {
		s := set.Lookup(id)
		if s == nil {
			if cp.verbose {
				cp.logger.LogAttrs(cp.context, slog.LevelDebug, "ckpt: no serializer", slog.String("type", id.String()))
			}
			continue
		}
		cp.Serialize(id, s)
	}
}
