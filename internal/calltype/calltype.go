// Package calltype defines the Call contract shared by every layer of the
// memoization runtime (constraint recording, the accelerator, the
// call-tree and the public pkg/memo surface) without creating an import
// cycle between them: this package sits below all of them and is
// re-exported verbatim as memo.Call.
//
// © 2025 memotrack authors. MIT License.
package calltype

import "github.com/voskan/memotrack/internal/digest"

// Call is an owned representation of a single tracked-method invocation,
// carrying owned copies of its arguments. Each tracked type's generated
// (or hand-written) surface defines one concrete Call-implementing type
// per tracked method; together they form that type's closed variant set,
// even though Go's type system does not let us seal it the way a Rust
// enum would.
type Call interface {
	// Digest returns a stable digest over the call's owned argument
	// copies. Two calls with equal digests but unequal structure are a
	// contract violation (see Constraint's strict-mode check).
	Digest() digest.D128
	// IsMutable reports whether this variant corresponds to a &mut-self
	// (pointer-receiver, state-changing) method.
	IsMutable() bool
}

// UnitCall is the call representation for inputs that expose no tracked
// surface at all — plain hashed arguments. It is never mutable and never
// equal to any real call, matching the Rust original's impl of Call for
// the unit type.
type UnitCall struct{}

// Digest returns the zero digest; a UnitCall never needs to be
// distinguished from another UnitCall because a hashed input's call-tree
// collapses to a single leaf per key (see memo.HashedInput).
func (UnitCall) Digest() digest.D128 { return digest.Zero }

// IsMutable is always false for UnitCall.
func (UnitCall) IsMutable() bool { return false }
