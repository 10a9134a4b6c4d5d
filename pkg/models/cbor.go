package models

import (
	"io"
	"reflect"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/tosic/surrealdb-abstractions/internal/codec"
)

type CustomCBORTag uint64

// Tags assigned by SurrealDB to its own value types.
// See https://surrealdb.com/docs/surrealdb/integration/cbor
const (
	NoneTag            CustomCBORTag = 6
	TableNameTag       CustomCBORTag = 7
	RecordIDTag        CustomCBORTag = 8
	DurationCompactTag CustomCBORTag = 14
	BinaryUUIDTag      CustomCBORTag = 37
)

var (
	modesOnce sync.Once
	encMode   cbor.EncMode
	decMode   cbor.DecMode
)

func registerCborTags() cbor.TagSet {
	customTags := map[CustomCBORTag]any{
		TableNameTag: Table(""),
	}

	tags := cbor.NewTagSet()
	for tag, customType := range customTags {
		err := tags.Add(
			cbor.TagOptions{EncTag: cbor.EncTagRequired, DecTag: cbor.DecTagRequired},
			reflect.TypeOf(customType),
			uint64(tag),
		)
		if err != nil {
			panic(err)
		}
	}

	return tags
}

func initModes() {
	tags := registerCborTags()

	var err error
	encMode, err = cbor.EncOptions{
		Time:    cbor.TimeRFC3339Nano,
		TimeTag: cbor.EncTagRequired,
	}.EncModeWithTags(tags)
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		TimeTagToAny:          cbor.TimeTagToTime,
		DefaultMapType:        reflect.TypeOf(map[string]any(nil)),
		DefaultByteStringType: reflect.TypeOf([]byte(nil)),
	}.DecModeWithTags(tags)
	if err != nil {
		panic(err)
	}
}

func getCborEncoder() cbor.EncMode {
	modesOnce.Do(initModes)
	return encMode
}

func getCborDecoder() cbor.DecMode {
	modesOnce.Do(initModes)
	return decMode
}

// CborMarshaler encodes values the way the SurrealDB RPC endpoint expects them.
type CborMarshaler struct{}

func (c CborMarshaler) Marshal(v any) ([]byte, error) {
	return getCborEncoder().Marshal(v)
}

func (c CborMarshaler) NewEncoder(w io.Writer) codec.Encoder {
	return getCborEncoder().NewEncoder(w)
}

// CborUnmarshaler is the decoding counterpart of CborMarshaler.
type CborUnmarshaler struct{}

func (c CborUnmarshaler) Unmarshal(data []byte, dst any) error {
	return getCborDecoder().Unmarshal(data, dst)
}

func (c CborUnmarshaler) NewDecoder(r io.Reader) codec.Decoder {
	return getCborDecoder().NewDecoder(r)
}
