package storage

import (
	"bytes"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sheikhrachel/go-yals/codec"
	"github.com/sheikhrachel/go-yals/model"
)

// ErrUnknownFormat is returned for unrecognised format names or undecodable files
var ErrUnknownFormat = errors.New("unknown world format")

// Format is an on-disk world encoding
type Format int

const (
	FormatBinary Format = iota // raw serialized world
	FormatBase64               // Base64 text of the serialized world
	FormatZstd                 // zstd frame holding the serialized world
	FormatText                 // W,H,ON,OFF header plus rows of cells
)

var formats = [...]struct {
	name, ext string
}{
	FormatBinary: {"binary", ".wor"},
	FormatBase64: {"base64", ".b64"},
	FormatZstd:   {"zstd", ".wor.zst"},
	FormatText:   {"text", ".txt"},
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formats) {
		return "unknown"
	}
	return formats[f].name
}

// Ext returns the conventional file extension for the format
func (f Format) Ext() string {
	if f < 0 || int(f) >= len(formats) {
		return ""
	}
	return formats[f].ext
}

// ParseFormat resolves a format by name
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, info := range formats {
		if info.name == name {
			return Format(f), nil
		}
	}
	return FormatBinary, errors.Wrapf(ErrUnknownFormat, "[ParseFormat] %q", name)
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, _ := zstd.NewWriter(nil)
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		dec, _ := zstd.NewReader(nil)
		return dec
	},
}

// Encode renders a world in the given format
func Encode(w *model.World, f Format) ([]byte, error) {
	switch f {
	case FormatBinary:
		return codec.Serialize(w), nil
	case FormatBase64:
		return []byte(codec.EncodeBase64(codec.Serialize(w)) + "\n"), nil
	case FormatZstd:
		enc := zstdEncPool.Get().(*zstd.Encoder)
		defer zstdEncPool.Put(enc)
		return enc.EncodeAll(codec.Serialize(w), nil), nil
	case FormatText:
		return []byte(codec.FormatText(w, codec.TextOn, codec.TextOff)), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "[Encode] format %d", int(f))
	}
}

/*
Decode detects the encoding of b and decodes the world it holds.

A zstd frame is decompressed first. The payload is then tried as Base64 text and
falls back to raw bytes when it is not valid Base64 or does not decode to a
world; raw bytes that do not carry the world magic are finally tried as a text
world.
*/
func Decode(b []byte) (*model.World, Format, error) {
	if bytes.HasPrefix(b, zstdMagic) {
		dec := zstdDecPool.Get().(*zstd.Decoder)
		raw, err := dec.DecodeAll(b, nil)
		zstdDecPool.Put(dec)
		if err != nil {
			return nil, FormatZstd, errors.Wrap(err, "[Decode] zstd")
		}
		w, _, err := decodePlain(raw)
		return w, FormatZstd, err
	}
	return decodePlain(b)
}

func decodePlain(b []byte) (*model.World, Format, error) {
	raw, err := codec.DecodeBase64(string(bytes.TrimSpace(b)))
	if err == nil {
		var w *model.World
		if w, err = codec.Deserialize(raw); err == nil {
			return w, FormatBase64, nil
		}
		if !isFormatMismatch(err) {
			return nil, FormatBase64, errors.Wrap(err, "[Decode] base64")
		}
	}
	Logger().Debug("not a base64 world, reading raw bytes", zap.Error(err), zap.Int("bytes", len(b)))

	w, err := codec.Deserialize(b)
	if err == nil {
		return w, FormatBinary, nil
	}
	if !isFormatMismatch(err) {
		return nil, FormatBinary, errors.Wrap(err, "[Decode] binary")
	}

	w, textErr := codec.ParseText(string(b))
	if textErr == nil {
		return w, FormatText, nil
	}
	Logger().Debug("not a text world", zap.Error(textErr))
	return nil, FormatBinary, errors.Wrapf(ErrUnknownFormat, "[Decode] %v", err)
}

// isFormatMismatch reports whether err means "not this encoding" rather than a
// broken world of the right encoding
func isFormatMismatch(err error) bool {
	return errors.Is(err, codec.ErrBadMagic) ||
		errors.Is(err, codec.ErrInvalidLength) ||
		errors.Is(err, codec.ErrBadBase64)
}

// Load reads a world file in any supported format
func Load(path string) (*model.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[Load] failed to read file: %+v", path)
	}

	w, format, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "[Load] failed to decode file: %+v", path)
	}
	Logger().Info("loaded world",
		zap.String("path", path),
		zap.Stringer("format", format),
		zap.Int("width", w.Width()),
		zap.Int("height", w.Height()),
		zap.Uint32("generation", w.Generation()),
	)
	return w, nil
}

// Save writes a world file in the given format
func Save(path string, w *model.World, f Format) error {
	data, err := Encode(w, f)
	if err != nil {
		return errors.Wrapf(err, "[Save] failed to encode world for: %+v", path)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "[Save] failed to write file: %+v", path)
	}
	Logger().Info("saved world",
		zap.String("path", path),
		zap.Stringer("format", f),
		zap.Int("bytes", len(data)),
	)
	return nil
}
