// Package record defines the typed data model of a lattice database.
//
// Values are a closed tagged union mirroring the schema's fixed type-tag set
// (int, float, string, bool, timestamp, bytes, array, object). The
// representation is designed to make indexing and filtering fast and
// predictable: no reflection and no fmt-based stringification.
//
// A Record is a field-name → Value mapping carrying a unique identifier in
// the reserved "_id" field. A Schema declares the required fields of a
// collection; every inserted record must supply a value for every declared
// field.
package record
