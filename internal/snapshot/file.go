package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"slices"

	"github.com/tinylib/msgp/msgp"
)

// FileExtension is the conventional extension of state files.
const FileExtension = ".c8s"

// FormatVersion is the version of the state file layout written by Write.
const FormatVersion = 1

const (
	magic       = "CHIP8SAV"
	headerSize  = len(magic) + 1
	trailerSize = 4

	// maxFileSize bounds the amount of data read for a state file.
	maxFileSize = 64 * 1024
)

// ErrInvalidFormat is matched by all FormatError values.
var ErrInvalidFormat = errors.New("invalid state file")

// FormatError is returned when data read is not a valid state file.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidFormat, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidFormat, e.Reason)
}

// Is reports whether target is ErrInvalidFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// Unwrap returns the underlying decode error, if any.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Write encodes the state to w.
//
// Layout: 8 byte magic, 1 byte format version, MessagePack body and a
// big endian CRC-32 (IEEE) of everything before it.
func Write(w io.Writer, state *State) error {
	buf := make([]byte, 0, headerSize+state.Msgsize()+trailerSize)
	buf = append(buf, magic...)
	buf = append(buf, FormatVersion)

	buf, err := state.MarshalMsg(buf)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	buf = binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// Read decodes a state written by Write. Data that is not a state file or
// that is corrupt returns a *FormatError, read failures are returned as is.
func Read(r io.Reader) (*State, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, &FormatError{Reason: fmt.Sprintf("file exceeds %d bytes", maxFileSize)}
	}
	if len(data) < headerSize+trailerSize || !bytes.HasPrefix(data, []byte(magic)) {
		return nil, &FormatError{Reason: "missing file signature"}
	}
	if version := data[len(magic)]; version != FormatVersion {
		return nil, &FormatError{Reason: fmt.Sprintf("unsupported format version %d", version)}
	}

	payload := data[:len(data)-trailerSize]
	checksum := binary.BigEndian.Uint32(data[len(payload):])
	if crc32.ChecksumIEEE(payload) != checksum {
		return nil, &FormatError{Reason: "checksum mismatch"}
	}

	body := payload[headerSize:]
	if err := checkFields(body); err != nil {
		return nil, err
	}

	state := &State{}
	rest, err := state.UnmarshalMsg(body)
	if err != nil {
		return nil, &FormatError{Reason: "decoding body", Err: err}
	}
	if len(rest) != 0 {
		return nil, &FormatError{Reason: fmt.Sprintf("%d trailing bytes after body", len(rest))}
	}
	return state, nil
}

// checkFields returns a *FormatError if the body lacks one of the state
// fields. Unknown fields are allowed.
func checkFields(body []byte) error {
	count, bts, err := msgp.ReadMapHeaderBytes(body)
	if err != nil {
		return &FormatError{Reason: "decoding body", Err: err}
	}

	var found [len(fields)]bool
	for ; count > 0; count-- {
		var key []byte
		key, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return &FormatError{Reason: "decoding body", Err: err}
		}
		if i := slices.Index(fields[:], string(key)); i >= 0 {
			found[i] = true
		}
		bts, err = msgp.Skip(bts)
		if err != nil {
			return &FormatError{Reason: "decoding body", Err: msgp.WrapError(err, string(key))}
		}
	}

	for i, ok := range found {
		if !ok {
			return &FormatError{Reason: fmt.Sprintf("missing field %q", fields[i])}
		}
	}
	return nil
}
