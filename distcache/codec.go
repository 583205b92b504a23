package distcache

import "github.com/vmihailenco/msgpack/v5"

// Codec turns memoized values into the bytes a Store keeps.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type msgpackCodec struct{}

// MsgpackCodec returns the default Codec.
func MsgpackCodec() Codec {
	return msgpackCodec{}
}

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
