package ckpt

import (
	"fmt"
	"strings"
)

var dumpSep = strings.Repeat("-", 72)

// DumpPools formats a pool directory as a table, one pool per line.
func DumpPools(pools []PoolInfo) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%-4s %-22s %8s %8s %8s  %s\n", "id", "type", "offset", "size", "count", "fields")
	fmt.Fprintln(&buf, dumpSep)
	for _, p := range pools {
		var fields []string
		if p.Descriptor != nil {
			for _, f := range p.Descriptor.Fields {
				fields = append(fields, f.Name+":"+f.Kind.String())
			}
		}
		if !p.Present {
			fmt.Fprintf(&buf, "%-4d %-22s %8s %8s %8s  %s\n", uint32(p.TypeID), p.Name, "-", "-", "absent", strings.Join(fields, " "))
			continue
		}
		fmt.Fprintf(&buf, "%-4d %-22s %8d %8d %8d  %s\n", uint32(p.TypeID), p.Name, p.Offset, p.Size, p.Count, strings.Join(fields, " "))
	}
	return buf.String()
}

// HexDump formats b as 8-byte rows of hex and printable ASCII. The byte at
// highlightOff (if >= 0) is marked with '>'.
func HexDump(b []byte, highlightOff int) string {
	var buf strings.Builder
	var off int
	n := len(b)
	for {
		fmt.Fprintf(&buf, "%08x", off)
		if off >= n {
			buf.WriteByte('\n')
			break
		}
		buf.WriteByte(' ')
		for i := range 8 {
			if off+i >= n {
				buf.WriteString("   ")
			} else {
				if highlightOff >= 0 && off+i == highlightOff {
					buf.WriteByte('>')
				} else {
					buf.WriteByte(' ')
				}
				fmt.Fprintf(&buf, "%02x", b[off+i])
			}
		}
		buf.WriteString("  |")
		for i := range 8 {
			if off+i < n {
				v := b[off+i]
				if v >= 32 && v <= 126 {
					buf.WriteByte(v)
				} else {
					buf.WriteByte('.')
				}
			}
		}
		off += 8
		buf.WriteString("|\n")
		if off >= n {
			break
		}
	}
	return buf.String()
}
