// Package digest provides the single 128-bit hash function used
// everywhere memotrack needs a stable, collision-resistant identity for a
// value: argument hashing, result hashing, cache-key composition and call
// deduplication.
//
// A D128 is treated as exact equality in every hot path (deduplication,
// accelerator lookups, call-tree edges). With a 128-bit digest the chance
// of a spurious collision is assumed negligible, the same assumption the
// ported runtime's Rust original makes about SipHash-128.
//
// © 2025 memotrack authors. MIT License.
package digest

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/zeebo/xxh3"
)

// D128 is a 128-bit digest, split into two 64-bit halves so that it stays
// comparable (and therefore usable as a map key) without boxing.
type D128 struct {
	Hi, Lo uint64
}

// Zero is the digest of no value in particular; used as a sentinel for
// "no tracked calls possible" inputs (see calltype.UnitCall).
var Zero = D128{}

// IsZero reports whether d is the zero digest.
func (d D128) IsZero() bool { return d.Hi == 0 && d.Lo == 0 }

// Bytes renders d as 16 big-endian bytes, for callers that need a
// serializable form (on-disk keys, wire payloads) rather than the
// struct's in-memory comparability.
func (d D128) Bytes() [16]byte {
	var b [16]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(d.Hi >> (56 - 8*i))
		b[8+i] = byte(d.Lo >> (56 - 8*i))
	}
	return b
}

// encoderPool reuses the byte buffer Of encodes into, keeping the hot
// path (every tracked call, every memoized argument) allocation-light.
// The gob.Encoder beside it is rebuilt on every Of call (see Of).
var encoderPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		return &pooledEncoder{buf: buf, enc: gob.NewEncoder(buf)}
	},
}

type pooledEncoder struct {
	buf *bytes.Buffer
	enc *gob.Encoder
}

// Of computes the 128-bit digest of an arbitrary Go value by gob-encoding
// it into a canonical byte representation and hashing those bytes with
// xxh3's 128-bit variant.
//
// Values that can cheaply produce their own digest (closed Call variants
// concatenating sub-digests, for instance) should bypass Of and hash
// directly; it exists for the generic "key" portion of memoized
// arguments and for generated Call payloads that embed arbitrary
// user types.
func Of(v any) D128 {
	pe := encoderPool.Get().(*pooledEncoder)
	pe.buf.Reset()
	// A gob.Encoder describes each non-basic type only the first time it
	// encodes it, so a fresh encoder keeps the bytes (and the digest) of
	// equal values identical across calls. Encoding failures (unexported
	// fields, channels, funcs) are a programmer error in what is passed
	// as a memoized argument.
	pe.enc = gob.NewEncoder(pe.buf)
	if err := pe.enc.Encode(&v); err != nil {
		encoderPool.Put(pe)
		panic("memotrack: value is not hashable: " + err.Error())
	}
	sum := xxh3.Hash128(pe.buf.Bytes())
	encoderPool.Put(pe)
	return D128{Hi: sum.Hi, Lo: sum.Lo}
}

// OfBytes hashes a raw byte slice directly, skipping gob encoding. Used
// by Call implementations and the fast path for string/[]byte key
// parts, avoiding a gob round-trip for the two types that already have
// a direct hasher.
func OfBytes(b []byte) D128 {
	sum := xxh3.Hash128(b)
	return D128{Hi: sum.Hi, Lo: sum.Lo}
}

// OfString hashes a string directly without an intermediate copy.
func OfString(s string) D128 {
	sum := xxh3.HashString128(s)
	return D128{Hi: sum.Hi, Lo: sum.Lo}
}

// Combine mixes a sequence of digests into one, in order. Used to build a
// Call's digest from its owned argument digests without going through
// gob, and to compose the per-argument key digests of a multi-argument
// memoized function (see memo.Args2..Args5).
func Combine(parts ...D128) D128 {
	buf := make([]byte, 16*len(parts))
	for i, p := range parts {
		putUint64(buf[16*i:16*i+8], p.Hi)
		putUint64(buf[16*i+8:16*i+16], p.Lo)
	}
	sum := xxh3.Hash128(buf)
	return D128{Hi: sum.Hi, Lo: sum.Lo}
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
