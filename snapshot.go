package lattice

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/hupe1980/lattice/evolution"
	"github.com/hupe1980/lattice/record"
)

// snapshotMagic prefixes the binary encoding. Its first byte can never be
// '{', which is how the text fallback is told apart on decode.
var snapshotMagic = []byte("LTC1")

// ErrInvalidSnapshot is returned when persisted bytes are not a lattice
// snapshot.
var ErrInvalidSnapshot = errors.New("invalid snapshot payload")

// snapshot is the serialized shape of a database: identity, schema version
// history and every collection with its full record sequence. Indexes are
// derived caches and are never persisted.
type snapshot struct {
	Name           string                        `json:"name"`
	Version        string                        `json:"version"`
	CreatedAt      time.Time                     `json:"created_at"`
	UpdatedAt      time.Time                     `json:"updated_at"`
	SchemaVersions map[string][]SchemaVersion    `json:"schema_versions"`
	Collections    map[string]collectionSnapshot `json:"collections"`
}

type collectionSnapshot struct {
	Name    string          `json:"name"`
	Schema  record.Schema   `json:"schema"`
	Records []record.Record `json:"records"`
}

// MarshalBinary implements encoding.BinaryMarshaler with the compact
// schema-driven layout.
func (s *snapshot) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 1024)
	buf = append(buf, snapshotMagic...)
	buf = appendString(buf, s.Name)
	buf = appendString(buf, s.Version)
	buf = appendTime(buf, s.CreatedAt)
	buf = appendTime(buf, s.UpdatedAt)

	buf = binary.AppendUvarint(buf, uint64(len(s.SchemaVersions)))
	for name, versions := range s.SchemaVersions {
		buf = appendString(buf, name)
		buf = binary.AppendUvarint(buf, uint64(len(versions)))
		for _, sv := range versions {
			buf = binary.AppendUvarint(buf, uint64(sv.Version))
			buf = record.AppendSchema(buf, sv.Schema)
			buf = appendTime(buf, sv.CreatedAt)
			buf = appendMigrationInfo(buf, sv.MigrationInfo)
		}
	}

	buf = binary.AppendUvarint(buf, uint64(len(s.Collections)))
	for name, cs := range s.Collections {
		buf = appendString(buf, name)
		buf = record.AppendSchema(buf, cs.Schema)
		buf = binary.AppendUvarint(buf, uint64(len(cs.Records)))
		for _, rec := range cs.Records {
			var err error
			buf, err = record.AppendRecord(buf, rec)
			if err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *snapshot) UnmarshalBinary(data []byte) error {
	if len(data) < len(snapshotMagic) || string(data[:len(snapshotMagic)]) != string(snapshotMagic) {
		return ErrInvalidSnapshot
	}
	data = data[len(snapshotMagic):]

	var err error
	if s.Name, data, err = parseString(data); err != nil {
		return err
	}
	if s.Version, data, err = parseString(data); err != nil {
		return err
	}
	if s.CreatedAt, data, err = parseTime(data); err != nil {
		return err
	}
	if s.UpdatedAt, data, err = parseTime(data); err != nil {
		return err
	}

	histCount, n := binary.Uvarint(data)
	if n <= 0 {
		return ErrInvalidSnapshot
	}
	data = data[n:]
	s.SchemaVersions = make(map[string][]SchemaVersion, histCount)
	for range histCount {
		var name string
		if name, data, err = parseString(data); err != nil {
			return err
		}
		verCount, n := binary.Uvarint(data)
		if n <= 0 {
			return ErrInvalidSnapshot
		}
		data = data[n:]
		versions := make([]SchemaVersion, 0, verCount)
		for range verCount {
			var sv SchemaVersion
			v, n := binary.Uvarint(data)
			if n <= 0 {
				return ErrInvalidSnapshot
			}
			sv.Version = int(v)
			data = data[n:]
			if sv.Schema, data, err = record.ParseSchema(data); err != nil {
				return err
			}
			if sv.CreatedAt, data, err = parseTime(data); err != nil {
				return err
			}
			if sv.MigrationInfo, data, err = parseMigrationInfo(data); err != nil {
				return err
			}
			versions = append(versions, sv)
		}
		s.SchemaVersions[name] = versions
	}

	colCount, n := binary.Uvarint(data)
	if n <= 0 {
		return ErrInvalidSnapshot
	}
	data = data[n:]
	s.Collections = make(map[string]collectionSnapshot, colCount)
	for range colCount {
		var cs collectionSnapshot
		if cs.Name, data, err = parseString(data); err != nil {
			return err
		}
		if cs.Schema, data, err = record.ParseSchema(data); err != nil {
			return err
		}
		recCount, n := binary.Uvarint(data)
		if n <= 0 {
			return ErrInvalidSnapshot
		}
		data = data[n:]
		cs.Records = make([]record.Record, 0, recCount)
		for range recCount {
			var rec record.Record
			if rec, data, err = record.ParseRecord(data); err != nil {
				return err
			}
			cs.Records = append(cs.Records, rec)
		}
		s.Collections[cs.Name] = cs
	}
	return nil
}

func appendString(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

func parseString(data []byte) (string, []byte, error) {
	l, n := binary.Uvarint(data)
	if n <= 0 {
		return "", nil, ErrInvalidSnapshot
	}
	data = data[n:]
	if uint64(len(data)) < l {
		return "", nil, ErrInvalidSnapshot
	}
	return string(data[:l]), data[l:], nil
}

func appendTime(dst []byte, t time.Time) []byte {
	if t.IsZero() {
		return append(dst, 0)
	}
	dst = append(dst, 1)
	return binary.AppendVarint(dst, t.UnixNano())
}

func parseTime(data []byte) (time.Time, []byte, error) {
	if len(data) == 0 {
		return time.Time{}, nil, ErrInvalidSnapshot
	}
	present := data[0] != 0
	data = data[1:]
	if !present {
		return time.Time{}, data, nil
	}
	ns, n := binary.Varint(data)
	if n <= 0 {
		return time.Time{}, nil, ErrInvalidSnapshot
	}
	return time.Unix(0, ns).UTC(), data[n:], nil
}

func appendMigrationInfo(dst []byte, info *evolution.Info) []byte {
	if info == nil {
		return append(dst, 0)
	}
	dst = append(dst, 1)
	if info.Compatible {
		dst = append(dst, 1)
	} else {
		dst = append(dst, 0)
	}
	for _, changes := range [][]evolution.FieldChange{info.Added, info.Removed, info.Changed} {
		dst = binary.AppendUvarint(dst, uint64(len(changes)))
		for _, ch := range changes {
			dst = appendString(dst, ch.Name)
			dst = append(dst, byte(ch.OldKind), byte(ch.NewKind))
		}
	}
	return dst
}

func parseMigrationInfo(data []byte) (*evolution.Info, []byte, error) {
	if len(data) == 0 {
		return nil, nil, ErrInvalidSnapshot
	}
	present := data[0] != 0
	data = data[1:]
	if !present {
		return nil, data, nil
	}
	if len(data) == 0 {
		return nil, nil, ErrInvalidSnapshot
	}
	info := &evolution.Info{Compatible: data[0] != 0}
	data = data[1:]

	for _, target := range []*[]evolution.FieldChange{&info.Added, &info.Removed, &info.Changed} {
		count, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, nil, ErrInvalidSnapshot
		}
		data = data[n:]
		for range count {
			var (
				ch  evolution.FieldChange
				err error
			)
			if ch.Name, data, err = parseString(data); err != nil {
				return nil, nil, err
			}
			if len(data) < 2 {
				return nil, nil, ErrInvalidSnapshot
			}
			ch.OldKind = record.Kind(data[0])
			ch.NewKind = record.Kind(data[1])
			data = data[2:]
			*target = append(*target, ch)
		}
	}
	return info, data, nil
}
