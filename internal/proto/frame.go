// Package proto implements the wire codec (spec.md §4.2): an 8-byte
// ASCII decimal header, a 3-byte ASCII decimal class id, and an opaque
// payload. The header/class-id fields are the historical, normative
// framing; the payload itself is a self-describing JSON archive, which
// satisfies spec.md's "any format is acceptable provided both
// endpoints agree" — this repo is both endpoints.
package proto

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	HeaderSize  = 8
	ClassIDSize = 3
)

// ClassID identifies a message's wire type (spec.md §4.2 table).
type ClassID uint8

const (
	ClassPlayer        ClassID = 1
	ClassWorld         ClassID = 2
	ClassJoinRequest   ClassID = 4
	ClassServerAccept  ClassID = 5
	ClassServerDeny    ClassID = 6
	ClassCommand       ClassID = 7
	ClassWorldSnapshot ClassID = 10
	// ClassChat is the supplemental chat channel added in SPEC_FULL.md §9.4.
	ClassChat ClassID = 20
)

// Frame is one fully-read message: its class id and its undecoded
// payload bytes.
type Frame struct {
	ClassID ClassID
	Payload []byte
}

// parseDecimalField mirrors the original's network::get_number: on any
// parse failure (non-digit content, empty field) it returns 0 rather
// than an error, so the caller's dispatch switch silently drops the
// message (spec.md §4.2, §7, §9 — preserved for bug-compat, the Open
// Question resolved in SPEC_FULL.md §10.2).
func parseDecimalField(data []byte) int {
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func formatDecimalField(n, width int) string {
	return fmt.Sprintf("%*d", width, n)
}

// ReadFrame performs the two-phase read of spec.md §4.2: read exactly
// HeaderSize bytes, parse the body length, read exactly that many
// bytes, then split off the leading class id. Any I/O error is
// returned unwrapped so the caller can distinguish EOF/closed-socket
// from a successful-but-malformed frame.
func ReadFrame(r io.Reader) (Frame, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return Frame{}, err
	}

	bodySize := parseDecimalField(header)

	body := make([]byte, bodySize)
	if bodySize > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return Frame{}, err
		}
	}

	if bodySize < ClassIDSize {
		// Too short to even carry a class id — dispatch drops it.
		return Frame{ClassID: 0, Payload: nil}, nil
	}

	classID := parseDecimalField(body[:ClassIDSize])
	return Frame{ClassID: ClassID(classID), Payload: body[ClassIDSize:]}, nil
}

// WriteMessage encodes obj as JSON, prepends the class id and header,
// and performs a single Write call — the whole buffer goes out as one
// unit so a concurrent tick broadcast can never interleave with it
// (spec.md §4.2's write_object).
func WriteMessage(w io.Writer, classID ClassID, obj any) error {
	buf, err := EncodeMessage(classID, obj)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// EncodeMessage builds the full header+class-id+payload buffer for
// obj without writing it anywhere — used by the server's broadcast
// path to encode a snapshot once and write the same buffer to every
// connection (spec.md §9, "Broadcast fan-out").
func EncodeMessage(classID ClassID, obj any) ([]byte, error) {
	payload, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	classIDStr := formatDecimalField(int(classID), ClassIDSize)
	bodyLen := len(classIDStr) + len(payload)
	headerStr := formatDecimalField(bodyLen, HeaderSize)

	buf := make([]byte, 0, HeaderSize+bodyLen)
	buf = append(buf, headerStr...)
	buf = append(buf, classIDStr...)
	buf = append(buf, payload...)
	return buf, nil
}

// Decode unmarshals a frame's payload into v.
func Decode(f Frame, v any) error {
	if len(f.Payload) == 0 {
		return io.ErrUnexpectedEOF
	}
	return json.Unmarshal(f.Payload, v)
}
