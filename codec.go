package cborbody

import (
	"github.com/fxamacker/cbor/v2"
)

// MediaType is the canonical content type of CBOR payloads.
const MediaType = "application/cbor"

// A Codec marshals values to and from CBOR.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// DefaultCodec uses the default encoding and decoding options of
// github.com/fxamacker/cbor/v2.
var DefaultCodec Codec = mustCodec(cbor.EncOptions{}, cbor.DecOptions{})

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCodec builds a Codec from explicit encoding and decoding options, e.g.
// cbor.CoreDetEncOptions() for deterministic output.
func NewCodec(encOpts cbor.EncOptions, decOpts cbor.DecOptions) (Codec, error) {
	enc, err := encOpts.EncMode()
	if err != nil {
		return nil, err
	}

	dec, err := decOpts.DecMode()
	if err != nil {
		return nil, err
	}

	return cborCodec{enc: enc, dec: dec}, nil
}

func mustCodec(encOpts cbor.EncOptions, decOpts cbor.DecOptions) Codec {
	c, err := NewCodec(encOpts, decOpts)
	if err != nil {
		panic(err)
	}

	return c
}

func (c cborCodec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c cborCodec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}

// Marshal encodes v with DefaultCodec. Failures are reported as an *Error
// of KindSerialize.
func Marshal(v any) ([]byte, error) {
	return marshal(DefaultCodec, v)
}

// Unmarshal decodes data into v with DefaultCodec. Failures are reported as
// an *Error of KindDeserialize.
func Unmarshal(data []byte, v any) error {
	return unmarshal(DefaultCodec, data, v)
}

func marshal(c Codec, v any) ([]byte, error) {
	b, err := c.Marshal(v)
	if err != nil {
		return nil, &Error{Kind: KindSerialize, Err: err}
	}

	return b, nil
}

func unmarshal(c Codec, data []byte, v any) error {
	if err := c.Unmarshal(data, v); err != nil {
		return &Error{Kind: KindDeserialize, Err: err}
	}

	return nil
}
