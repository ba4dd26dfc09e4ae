package proio

import (
	"bytes"

	"google.golang.org/protobuf/proto"
)

// Decoder turns one record into a value.
//
// 'data' is only valid for the duration of the call.
type Decoder[T any] interface {
	Decode(data []byte) (T, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc[T any] func(data []byte) (T, error)

func (f DecoderFunc[T]) Decode(data []byte) (T, error) {
	return f(data)
}

// RawDecoder returns a copy of the record bytes.
type RawDecoder struct{}

func (RawDecoder) Decode(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}

// ProtoDecoder unmarshals each record into a new protobuf message.
type ProtoDecoder[M proto.Message] struct {
	New     func() M
	Options proto.UnmarshalOptions
}

// Construct a ProtoDecoder that allocates messages with 'newFunc'.
func NewProtoDecoder[M proto.Message](newFunc func() M) ProtoDecoder[M] {
	return ProtoDecoder[M]{New: newFunc}
}

func (d ProtoDecoder[M]) Decode(data []byte) (M, error) {
	m := d.New()
	if err := d.Options.Unmarshal(data, m); err != nil {
		var zero M
		return zero, err
	}
	return m, nil
}
