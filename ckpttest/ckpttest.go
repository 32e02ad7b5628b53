// Package ckpttest helps testing code that writes checkpoint pools: a
// compact notation for expected bytes, hex-dump diffs, a pool reader and a
// slog logger that writes to the test log.
package ckpttest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/andreyvit/ckpt"
)

// Expand converts the byte notation into bytes. Elements are separated by
// whitespace:
//
//   - `00_01 ff` hex bytes (`_` and spaces separate bytes)
//   - `#12` u32 big-endian, `##12` u64 big-endian
//   - `'abc` raw bytes
//   - `"abc"` an encoded string (Go quoted), `""` the empty string, `nil` the null string
//   - `x/comment` ignores everything after the slash
//   - `x*3` repeats the element
func Expand(specs ...string) []byte {
	var b []byte
	for _, spec := range specs {
		for _, elem := range tokenize(spec) {
			if elem[0] == '"' {
				s, err := strconv.Unquote(elem)
				if err != nil {
					panic(fmt.Errorf("invalid quoted string %s: %w", elem, err))
				}
				b = AppendString(b, s)
				continue
			}

			base, _, _ := strings.Cut(elem, "/") // comment
			if base == "" {
				continue
			}

			base, repStr, _ := strings.Cut(base, "*")
			rep := 1
			if repStr != "" {
				var err error
				rep, err = strconv.Atoi(repStr)
				if err != nil {
					panic(fmt.Sprintf("invalid repeat count %q in element %q", repStr, elem))
				}
			}

			chunk, err := decodeElement(base)
			if err != nil {
				panic(fmt.Errorf("%w in element %q", err, elem))
			}
			for range rep {
				b = append(b, chunk...)
			}
		}
	}
	return b
}

func tokenize(spec string) []string {
	var result []string
	for {
		spec = strings.TrimLeft(spec, " \t\n")
		if spec == "" {
			return result
		}
		if spec[0] == '"' {
			q, err := strconv.QuotedPrefix(spec)
			if err != nil {
				panic(fmt.Errorf("unterminated string in %q", spec))
			}
			result = append(result, q)
			spec = spec[len(q):]
			continue
		}
		i := strings.IndexAny(spec, " \t\n")
		if i < 0 {
			i = len(spec)
		}
		result = append(result, spec[:i])
		spec = spec[i:]
	}
}

func decodeElement(s string) ([]byte, error) {
	if s == "nil" {
		return []byte{ckpt.StringNull}, nil
	} else if decimal, ok := strings.CutPrefix(s, "##"); ok {
		v, err := strconv.ParseUint(decimal, 10, 64)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint64(nil, v), nil
	} else if decimal, ok := strings.CutPrefix(s, "#"); ok {
		v, err := strconv.ParseUint(decimal, 10, 32)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint32(nil, uint32(v)), nil
	} else if raw, ok := strings.CutPrefix(s, "'"); ok {
		return []byte(raw), nil
	}
	return appendHexDecoding(nil, s)
}

// AppendString appends the encoding of a non-null string.
func AppendString(b []byte, s string) []byte {
	if s == "" {
		return append(b, ckpt.StringEmpty)
	}
	b = append(b, ckpt.StringUTF8)
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendHexDecoding(data []byte, hex string) ([]byte, error) {
	const none byte = 0xFF

	prev := none
	for _, b := range []byte(hex) {
		var half byte
		switch b {
		case '_', ' ':
			if prev != none {
				data = append(data, prev)
				prev = none
			}
			continue
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			half = b - '0'
		case 'a', 'b', 'c', 'd', 'e', 'f':
			half = b - 'a' + 10
		case 'A', 'B', 'C', 'D', 'E', 'F':
			half = b - 'A' + 10
		default:
			return nil, fmt.Errorf("invalid char '%c'", b)
		}
		if prev == none {
			prev = half
		} else {
			data = append(data, prev<<4|half)
			prev = none
		}
	}
	if prev != none {
		data = append(data, prev)
	}
	return data, nil
}

// BytesEq reports a hex dump diff if a != e.
func BytesEq(t testing.TB, a, e []byte) bool {
	if !bytes.Equal(a, e) {
		an, en := len(a), len(e)
		off := min(an, en)
		for i := range min(an, en) {
			if a[i] != e[i] {
				off = i
				break
			}
		}

		t.Helper()
		t.Errorf("** got:\n%v\nwanted:\n%v\nfirst difference offset: 0x%x (%d)", ckpt.HexDump(a, off), ckpt.HexDump(e, off), off, off)
		return false
	}
	return true
}

// Logger returns a debug-level slog logger writing into the test log.
func Logger(t testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(&logWriter{t}, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
	}))
}

type logWriter struct{ t testing.TB }

func (c *logWriter) Write(buf []byte) (int, error) {
	msg := string(buf)
	origLen := len(msg)
	msg = strings.TrimSuffix(msg, "\n")
	c.t.Log(msg)
	return origLen, nil
}

// Catch runs f and returns the value it panicked with, or nil.
func Catch(f func()) (v any) {
	defer func() {
		v = recover()
	}()
	f()
	return nil
}

// Violation runs f, which must panic with a *ckpt.ContractError.
func Violation(t testing.TB, f func()) *ckpt.ContractError {
	t.Helper()
	v := Catch(f)
	if v == nil {
		t.Fatalf("** no contract violation")
	}
	err, ok := v.(error)
	var ce *ckpt.ContractError
	if !ok || !errors.As(err, &ce) {
		t.Fatalf("** panic = %v (%T), wanted *ckpt.ContractError", v, v)
	}
	return ce
}
