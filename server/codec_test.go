package server

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"alienarena-server/game"
)

func TestDecodeIntentJSON(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		want    game.Intent
		unknown bool
		bad     bool
	}{
		{name: "all keys", msg: `{"t":0,"F":true,"B":false,"L":true,"R":false,"A":true,"w":3,"wC":7}`,
			want: game.Intent{Forward: true, Left: true, Attack: true, Weapon: 3, WeaponChange: 7}},
		{name: "only type", msg: `{"t":0}`, want: game.Intent{}},
		{name: "other type", msg: `{"t":4,"F":true}`, unknown: true},
		{name: "missing type", msg: `{"F":true}`, unknown: true},
		{name: "not json", msg: `hello`, bad: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSON.DecodeIntent([]byte(tt.msg))
			switch {
			case tt.unknown:
				if !errors.Is(err, ErrUnknownMessage) {
					t.Fatalf("expected ErrUnknownMessage, got %v", err)
				}
			case tt.bad:
				if err == nil || errors.Is(err, ErrUnknownMessage) {
					t.Fatalf("expected a decode error, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got != tt.want {
					t.Fatalf("got %+v, want %+v", got, tt.want)
				}
			}
		})
	}
}

func TestDecodeIntentMsgpack(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"t": 0, "R": true, "B": true, "w": 2, "wC": 1})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Msgpack.DecodeIntent(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := game.Intent{Right: true, Back: true, Weapon: 2, WeaponChange: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	data, _ = msgpack.Marshal(map[string]any{"t": 9})
	if _, err := Msgpack.DecodeIntent(data); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
}

func TestEncodeSnapshotUsesWireNames(t *testing.T) {
	data, err := JSON.EncodeSnapshot(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"t", "l", "lW", "lH", "p", "a", "w", "b"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing key %q in %s", key, data)
		}
	}
	if !strings.Contains(string(raw["p"]), `"sC":0`) || !strings.Contains(string(raw["p"]), `"dead":false`) {
		t.Fatalf("unexpected player record %s", raw["p"])
	}

	packed, err := Msgpack.EncodeSnapshot(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	var back game.Snapshot
	if err := msgpack.Unmarshal(packed, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(testSnapshot()) {
		t.Fatalf("msgpack snapshot changed in transit: %+v", back)
	}
}

func TestCodecFor(t *testing.T) {
	if c, err := CodecFor("json"); err != nil || c.MessageType() != websocket.TextMessage {
		t.Fatalf("json codec: %v", err)
	}
	if c, err := CodecFor("msgpack"); err != nil || c.MessageType() != websocket.BinaryMessage {
		t.Fatalf("msgpack codec: %v", err)
	}
	if _, err := CodecFor("xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
