package codec

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-yals/model"
)

// Magic tags every serialized world
const Magic uint16 = 0xf0de

// HeaderSize is the byte length of magic, width, height, generation and state
const HeaderSize = 2 + 4 + 4 + 4 + 2

const wordSize = 4

var (
	// ErrInvalidLength is returned for input too short to hold a header, or
	// Base64 text whose length is not a multiple of 4
	ErrInvalidLength = errors.New("invalid length")
	// ErrBadMagic is returned when the stream does not start with Magic
	ErrBadMagic = errors.New("bad magic")
)

/*
Serialize encodes a world as big-endian fields:

	[magic u16][width u32][height u32][generation u32][state u16][data u32...]
*/
func Serialize(w *model.World) []byte {
	data := w.Data()
	out := make([]byte, 0, HeaderSize+len(data)*wordSize)

	out = binary.BigEndian.AppendUint16(out, Magic)
	out = binary.BigEndian.AppendUint32(out, uint32(w.Width()))
	out = binary.BigEndian.AppendUint32(out, uint32(w.Height()))
	out = binary.BigEndian.AppendUint32(out, w.Generation())
	out = binary.BigEndian.AppendUint16(out, uint16(w.Phase()))
	for _, word := range data {
		out = binary.BigEndian.AppendUint32(out, word)
	}
	return out
}

// Deserialize decodes a world written by Serialize. Only the length and magic
// are validated; the stored dimensions are trusted as long as a world of that
// size can be constructed. The world runs Conway's Life until SetRule is called.
func Deserialize(b []byte) (*model.World, error) {
	if len(b) < HeaderSize {
		return nil, errors.Wrapf(ErrInvalidLength, "[Deserialize] %d bytes, header needs %d", len(b), HeaderSize)
	}
	if magic := binary.BigEndian.Uint16(b[0:2]); magic != Magic {
		return nil, errors.Wrapf(ErrBadMagic, "[Deserialize] got %#04x", magic)
	}

	var (
		width      = binary.BigEndian.Uint32(b[2:6])
		height     = binary.BigEndian.Uint32(b[6:10])
		generation = binary.BigEndian.Uint32(b[10:14])
		phase      = model.Phase(binary.BigEndian.Uint16(b[14:16]))
		body       = b[HeaderSize:]
		words      = make([]uint32, len(body)/wordSize)
	)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(body[i*wordSize:])
	}

	w, err := model.Restore(int(width), int(height), generation, phase, words, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Deserialize]")
	}
	return w, nil
}
