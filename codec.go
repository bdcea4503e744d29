package triton

import (
	"encoding/binary"
	"fmt"
)

// The BYTES tensor wire format carries an ordered sequence of strings as
// repeated (4-byte little-endian length, raw bytes) records with no count
// prefix and no terminator. It must round-trip byte-for-byte with the host's
// own string-tensor convention.

// EncodeString encodes a single string as one length-prefixed record.
func EncodeString(value string) []byte {
	buf := make([]byte, 4+len(value))
	binary.LittleEndian.PutUint32(buf, uint32(len(value)))
	copy(buf[4:], value)
	return buf
}

// EncodeStrings encodes a sequence of strings as consecutive records.
func EncodeStrings(values []string) []byte {
	size := 0
	for _, v := range values {
		size += 4 + len(v)
	}
	buf := make([]byte, 0, size)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v)))
		buf = append(buf, v...)
	}
	return buf
}

// DecodeStrings decodes consecutive length-prefixed records until the buffer
// is exhausted. A length prefix that would read past the end of the buffer
// is a decode error; no partial result is returned.
func DecodeStrings(data []byte) ([]string, error) {
	var values []string
	for i := 0; i < len(data); {
		if len(data)-i < 4 {
			return nil, fmt.Errorf("%w: %d trailing bytes at offset %d", ErrTruncatedRecord, len(data)-i, i)
		}
		n := int(binary.LittleEndian.Uint32(data[i:]))
		i += 4
		if n > len(data)-i {
			return nil, fmt.Errorf("%w: length %d exceeds %d remaining bytes at offset %d", ErrTruncatedRecord, n, len(data)-i, i-4)
		}
		values = append(values, string(data[i:i+n]))
		i += n
	}
	return values, nil
}
