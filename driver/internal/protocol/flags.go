// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// ImplicitKind identifies one implicit metadata field a server may prepend to
// the visible fields of an object.
type ImplicitKind byte

// Implicit field kinds in their fixed wire order.
const (
	ImplicitTID ImplicitKind = iota
	ImplicitTName
	ImplicitID
)

var implicitKindText = map[ImplicitKind]string{
	ImplicitTID:   "__tid__",
	ImplicitTName: "__tname__",
	ImplicitID:    "id",
}

func (k ImplicitKind) String() string { return implicitKindText[k] }

// DecodeFlags are the per connection negotiated implicit field settings.
// They are shared read-only across all decodes on that connection.
type DecodeFlags struct {
	HasImplicitTID   bool
	HasImplicitTName bool
	HasImplicitID    bool
}

/*
ImplicitFields returns the implicit field prefix in the fixed order
{__tid__, __tname__, id}. The ordering is a protocol contract. Both the shape
validator and the row decoder derive their index arithmetic from this one
helper so they cannot drift apart.
*/
func (f DecodeFlags) ImplicitFields() []ImplicitKind {
	kinds := make([]ImplicitKind, 0, 3)
	if f.HasImplicitTID {
		kinds = append(kinds, ImplicitTID)
	}
	if f.HasImplicitTName {
		kinds = append(kinds, ImplicitTName)
	}
	if f.HasImplicitID {
		kinds = append(kinds, ImplicitID)
	}
	return kinds
}

// NumImplicit returns the number of implicit fields prepended to each object.
func (f DecodeFlags) NumImplicit() int {
	n := 0
	if f.HasImplicitTID {
		n++
	}
	if f.HasImplicitTName {
		n++
	}
	if f.HasImplicitID {
		n++
	}
	return n
}
