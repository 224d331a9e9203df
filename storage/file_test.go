package storage

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sheikhrachel/go-yals/codec"
	"github.com/sheikhrachel/go-yals/model"
)

func testWorld(t *testing.T) *model.World {
	t.Helper()
	w, err := model.NewWorld(23, 11, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if err := w.Fill(model.FillRandom, 3); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	w.Step()
	w.Step()
	return w
}

func TestSaveLoadAllFormats(t *testing.T) {
	dir := t.TempDir()
	w := testWorld(t)

	for _, f := range []Format{FormatBinary, FormatBase64, FormatZstd, FormatText} {
		t.Run(f.String(), func(t *testing.T) {
			path := filepath.Join(dir, "world"+f.Ext())
			if err := Save(path, w, f); err != nil {
				t.Fatalf("Save: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			got, format, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if format != f {
				t.Fatalf("detected %s, want %s", format, f)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if loaded.Hash() != w.Hash() || got.Hash() != w.Hash() {
				t.Fatal("cells differ after reload")
			}
			// the text format drops generation and phase
			if f != FormatText && loaded.Generation() != w.Generation() {
				t.Fatalf("generation = %d, want %d", loaded.Generation(), w.Generation())
			}
		})
	}
}

func TestDecodeBase64WithoutNewline(t *testing.T) {
	w := testWorld(t)
	got, format, err := Decode([]byte(codec.EncodeBase64(codec.Serialize(w))))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != FormatBase64 || got.Hash() != w.Hash() {
		t.Fatalf("format = %s", format)
	}
}

func TestDecodeBase64OfGarbageFallsBack(t *testing.T) {
	// valid Base64 whose payload has no world magic, and no valid raw world either
	_, _, err := Decode([]byte(codec.EncodeBase64(bytes.Repeat([]byte{0x42}, 30))))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestDecodeBrokenBase64World(t *testing.T) {
	b := codec.Serialize(testWorld(t))
	b[5] = 0 // zero width behind a valid magic
	if _, _, err := Decode([]byte(codec.EncodeBase64(b))); !errors.Is(err, model.ErrInvalidDimensions) {
		t.Fatalf("err = %v, want ErrInvalidDimensions", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.wor")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatBinary, FormatBase64, FormatZstd, FormatText} {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Fatalf("ParseFormat(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
	if _, err := Encode(testWorld(t), Format(42)); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestDecodeLogsBase64Mismatch(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	// valid Base64 whose payload lacks the world magic
	text := codec.EncodeBase64(make([]byte, 24))
	if _, _, err := Decode([]byte(text)); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}

	entries := logs.FilterMessage("not a base64 world, reading raw bytes").All()
	if len(entries) != 1 {
		t.Fatalf("got %d fallback log entries", len(entries))
	}
	logged, _ := entries[0].ContextMap()["error"].(string)
	if !strings.Contains(logged, codec.ErrBadMagic.Error()) {
		t.Fatalf("logged error = %q, want the bad magic cause", logged)
	}
}

func TestDecodeOversizedHeader(t *testing.T) {
	b := binary.BigEndian.AppendUint16(nil, codec.Magic)
	b = binary.BigEndian.AppendUint32(b, 1<<31)
	b = binary.BigEndian.AppendUint32(b, 1<<30)
	b = binary.BigEndian.AppendUint32(b, 0)
	b = binary.BigEndian.AppendUint16(b, 0)

	if _, _, err := Decode(b); !errors.Is(err, model.ErrInvalidDimensions) {
		t.Fatalf("err = %v, want ErrInvalidDimensions", err)
	}
}
