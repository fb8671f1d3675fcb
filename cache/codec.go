package cache

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrSerialization marks a cached value that could not be decoded, typically a
// corrupt entry or one written by a different codec. Callers should treat it
// as a cache miss and fall through to the store.
var ErrSerialization = errors.New("cache: cannot decode cached value")

// Codec encodes values before they are stored and decodes them on the way out.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// NewCodec returns the codec registered under name. The zero value selects
// JSON, matching the wire format of the reference demo.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, errors.Errorf("cache: unknown codec %q", name)
	}
}

// JSONCodec serializes values as JSON. Entries are human readable in
// redis-cli, which is worth more than the size savings in a demo.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "cache: json encode")
	}
	return data, nil
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(ErrSerialization, "json decode: %v", err)
	}
	return nil
}

func (JSONCodec) Name() string { return "json" }

// MsgpackCodec serializes values with msgpack for a compact binary encoding.
type MsgpackCodec struct{}

func (MsgpackCodec) Marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "cache: msgpack encode")
	}
	return data, nil
}

func (MsgpackCodec) Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return errors.Wrapf(ErrSerialization, "msgpack decode: %v", err)
	}
	return nil
}

func (MsgpackCodec) Name() string { return "msgpack" }
