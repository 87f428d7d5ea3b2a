package proto

import (
	"bytes"
	"strconv"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg := JoinRequest{Color: 0xFFA0B0C0}

	buf, err := EncodeMessage(ClassJoinRequest, msg)
	if err != nil {
		t.Fatal(err)
	}

	f, err := ReadFrame(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}

	if f.ClassID != ClassJoinRequest {
		t.Fatalf("ClassID = %d, want %d", f.ClassID, ClassJoinRequest)
	}

	var got JoinRequest
	if err := Decode(f, &got); err != nil {
		t.Fatal(err)
	}
	if got != msg {
		t.Fatalf("decoded = %+v, want %+v", got, msg)
	}
}

func TestHeaderLengthMatchesEncodedBody(t *testing.T) {
	buf, err := EncodeMessage(ClassCommand, Command{ID: 1, Buttons: 2, DurationMS: 20})
	if err != nil {
		t.Fatal(err)
	}

	header := string(buf[:HeaderSize])
	n, err := strconv.Atoi(trimSpacesForTest(header))
	if err != nil {
		t.Fatalf("header %q did not parse as decimal: %v", header, err)
	}

	if n != len(buf)-HeaderSize {
		t.Fatalf("header says body length %d, actual body length %d", n, len(buf)-HeaderSize)
	}
}

func trimSpacesForTest(s string) string {
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	return s
}

func TestReadFrameMalformedHeaderYieldsDroppedMessage(t *testing.T) {
	// 8 bytes of garbage (not decimal) as the header.
	r := bytes.NewReader([]byte("XXXXXXXX"))

	f, err := ReadFrame(r)
	if err != nil {
		t.Fatal(err)
	}
	if f.ClassID != 0 {
		t.Fatalf("ClassID = %d, want 0 for malformed header", f.ClassID)
	}
}

func TestReadFrameUnknownClassIsStillParsed(t *testing.T) {
	buf, err := EncodeMessage(ClassID(99), JoinRequest{Color: 1})
	if err != nil {
		t.Fatal(err)
	}
	f, err := ReadFrame(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	if f.ClassID != 99 {
		t.Fatalf("ClassID = %d, want 99", f.ClassID)
	}
	// Dispatch drops it; the codec itself doesn't error on unknown tags.
}

func TestWorldSnapshotRoundTrip(t *testing.T) {
	snap := WorldSnapshot{
		World: World{Players: []Player{
			{ID: 1, Color: 0xffffffff, X: 1, Y: 0, Z: -2, Yaw: 0.5},
		}},
		ServerTimeMS: 12345,
	}

	buf, err := EncodeMessage(ClassWorldSnapshot, snap)
	if err != nil {
		t.Fatal(err)
	}

	f, err := ReadFrame(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}

	var got WorldSnapshot
	if err := Decode(f, &got); err != nil {
		t.Fatal(err)
	}

	if got.ServerTimeMS != snap.ServerTimeMS || len(got.World.Players) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestReadFrameResynchronizesAfterOneMessage(t *testing.T) {
	first, _ := EncodeMessage(ClassJoinRequest, JoinRequest{Color: 1})
	second, _ := EncodeMessage(ClassServerAccept, ServerAccept{PlayerID: 7})

	r := bytes.NewReader(append(append([]byte{}, first...), second...))

	f1, err := ReadFrame(r)
	if err != nil || f1.ClassID != ClassJoinRequest {
		t.Fatalf("first frame: %+v, err=%v", f1, err)
	}

	f2, err := ReadFrame(r)
	if err != nil || f2.ClassID != ClassServerAccept {
		t.Fatalf("second frame: %+v, err=%v", f2, err)
	}
}
