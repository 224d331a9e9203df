package codec

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

// ErrBadBase64 is returned for Base64 text containing invalid characters or padding
var ErrBadBase64 = errors.New("bad base64")

// EncodeBase64 encodes b with the standard alphabet and '=' padding.
// The result is always 4*ceil(len(b)/3) characters long.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 decodes padded standard Base64
func DecodeBase64(s string) ([]byte, error) {
	if len(s)%4 != 0 {
		return nil, errors.Wrapf(ErrInvalidLength, "[DecodeBase64] length %d is not a multiple of 4", len(s))
	}
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrBadBase64, "[DecodeBase64] %v", err)
	}
	return b, nil
}
