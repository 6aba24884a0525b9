// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "github.com/google/uuid"

// Well-known base scalar type ids.
var (
	IDUUID          = uuid.MustParse("00000000-0000-0000-0000-000000000100")
	IDStr           = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	IDBytes         = uuid.MustParse("00000000-0000-0000-0000-000000000102")
	IDInt16         = uuid.MustParse("00000000-0000-0000-0000-000000000103")
	IDInt32         = uuid.MustParse("00000000-0000-0000-0000-000000000104")
	IDInt64         = uuid.MustParse("00000000-0000-0000-0000-000000000105")
	IDFloat32       = uuid.MustParse("00000000-0000-0000-0000-000000000106")
	IDFloat64       = uuid.MustParse("00000000-0000-0000-0000-000000000107")
	IDDecimal       = uuid.MustParse("00000000-0000-0000-0000-000000000108")
	IDBool          = uuid.MustParse("00000000-0000-0000-0000-000000000109")
	IDDatetime      = uuid.MustParse("00000000-0000-0000-0000-00000000010a")
	IDLocalDatetime = uuid.MustParse("00000000-0000-0000-0000-00000000010b")
	IDLocalDate     = uuid.MustParse("00000000-0000-0000-0000-00000000010c")
	IDLocalTime     = uuid.MustParse("00000000-0000-0000-0000-00000000010d")
	IDDuration      = uuid.MustParse("00000000-0000-0000-0000-00000000010e")
	IDJSON          = uuid.MustParse("00000000-0000-0000-0000-00000000010f")
	IDBigInt        = uuid.MustParse("00000000-0000-0000-0000-000000000110")
)

var baseScalarNames = map[uuid.UUID]string{
	IDUUID:          "std::uuid",
	IDStr:           "std::str",
	IDBytes:         "std::bytes",
	IDInt16:         "std::int16",
	IDInt32:         "std::int32",
	IDInt64:         "std::int64",
	IDFloat32:       "std::float32",
	IDFloat64:       "std::float64",
	IDDecimal:       "std::decimal",
	IDBool:          "std::bool",
	IDDatetime:      "std::datetime",
	IDLocalDatetime: "cal::local_datetime",
	IDLocalDate:     "cal::local_date",
	IDLocalTime:     "cal::local_time",
	IDDuration:      "std::duration",
	IDJSON:          "std::json",
	IDBigInt:        "std::bigint",
}

// BaseScalarName returns the qualified type name of a well-known base scalar
// id, "" if the id is unknown.
func BaseScalarName(id uuid.UUID) string { return baseScalarNames[id] }

// BaseScalarID returns the well-known id of a qualified base scalar type
// name, uuid.Nil if the name is unknown.
func BaseScalarID(name string) uuid.UUID {
	for id, n := range baseScalarNames {
		if n == name {
			return id
		}
	}
	return uuid.Nil
}
