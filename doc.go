/*
Package ckpt writes checkpoint constant pools: compact binary snapshots of
enumerable facts about a running runtime (live threads, thread groups, and the
fixed enumerations such as GC causes or compiler phases) consumed later by
offline analysis tools.

A checkpoint is written by one Writer, owned by a single goroutine for the
duration of the checkpoint. The orchestrator (Checkpoint, or any caller of
Serializer directly) invokes one Serializer per constant type id, in an order
of its choosing. Each serializer emits one pool.

# Pools

A pool is `count:u32` followed by `count` entries. A pool is either fully
present or fully absent:

1. Static tables know their count up front and write it directly. They never
roll back. A table behind an absent optional capability writes a declared
empty pool (count 0).

2. Dynamic pools (live threads) reserve the count slot, stream entries, then
either patch the count or, if nothing was found, restore the writer context
captured before the reservation, leaving zero residual bytes.

# Binary encoding

All integers are big-endian.

  - count, ordinal key: u32
  - stable key (trace id), scalar ids: u64
  - string: tag byte, 0 = null, 1 = empty, 3 = UTF-8 followed by the uvarint
    byte length and the bytes
  - bool: one byte

**Static table entry**: ordinal:u32 name:string.

**Thread entry**: traceID:u64 name:string osThreadID:u64 managedName:string
managedID:u64 groupID:u64. Native threads write a null managedName and zeros,
so every thread entry has the same shape.

**Self thread entry**: a thread entry of the calling thread followed, for a
managed thread, by its group chain: depth:u32 then depth times
(groupID:u64 parentID:u64 name:string), leaf first.

**Thread group entry**: groupID:u64 parentID:u64 name:string.

# Envelope

Checkpoint.Finish wraps the pools into a self-describing envelope: a fixed
little-endian header with an xxhash64 checksum, a msgpack directory naming
every pool (type id, offset, size, count, field layout), and the payload,
optionally zstd-compressed.

# Contract violations

Misuse of the writer (patching a position that was not reserved, restoring a
context of another writer) and missing runtime data (a thread without a name,
an ordinal outside its enumeration) are programming errors. They panic with a
*ContractError and are never returned as errors.
*/
package ckpt
