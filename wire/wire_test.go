package wire

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"testing"

	intern "github.com/Voskan/interner"
)

func TestJSONHandleRoundTrip(t *testing.T) {
	in, _ := intern.New()
	h, err := in.Intern([]byte("wire-json-key"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}

	b, err := json.Marshal(NewJSONHandle(h))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got JSONHandle
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Handle() != h {
		t.Fatalf("round trip mismatch: got %v, want %v", got.Handle(), h)
	}
}

func TestJSONHandleWireShapeIsBareUint32(t *testing.T) {
	h := intern.HandleFromUint32(7)
	b, err := json.Marshal(NewJSONHandle(h))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != "7" {
		t.Fatalf("wire shape = %s, want bare 7", b)
	}
}

func TestGobHandleRoundTrip(t *testing.T) {
	RegisterGob()

	in, _ := intern.New()
	h, err := in.Intern([]byte("wire-gob-key"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := EncodeGobHandle(enc, h); err != nil {
		t.Fatalf("EncodeGobHandle: %v", err)
	}

	dec := gob.NewDecoder(&buf)
	got, err := DecodeGobHandle(dec)
	if err != nil {
		t.Fatalf("DecodeGobHandle: %v", err)
	}
	if got != h {
		t.Fatalf("gob round trip mismatch: got %v, want %v", got, h)
	}
}

func TestGobHandleMultipleValuesInStream(t *testing.T) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	h1 := intern.HandleFromUint32(1)
	h2 := intern.HandleFromUint32(2)
	if err := EncodeGobHandle(enc, h1); err != nil {
		t.Fatalf("encode h1: %v", err)
	}
	if err := EncodeGobHandle(enc, h2); err != nil {
		t.Fatalf("encode h2: %v", err)
	}

	dec := gob.NewDecoder(&buf)
	got1, err := DecodeGobHandle(dec)
	if err != nil {
		t.Fatalf("decode h1: %v", err)
	}
	got2, err := DecodeGobHandle(dec)
	if err != nil {
		t.Fatalf("decode h2: %v", err)
	}
	if got1 != h1 || got2 != h2 {
		t.Fatalf("stream decode mismatch: got %v,%v want %v,%v", got1, got2, h1, h2)
	}
}
