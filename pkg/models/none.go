package models

import (
	"github.com/fxamacker/cbor/v2"
)

// CustomNil is SurrealDB's NONE, the absence of a value, as opposed to NULL.
type CustomNil struct{}

// None is the value rendered as NONE in statements and sent as tag 6 over CBOR.
var None = CustomNil{}

func (c CustomNil) MarshalCBOR() ([]byte, error) {
	return getCborEncoder().Marshal(cbor.Tag{
		Number:  uint64(NoneTag),
		Content: nil,
	})
}

func (c *CustomNil) UnmarshalCBOR(_ []byte) error {
	*c = CustomNil{}
	return nil
}

func (c CustomNil) SurrealQL() string {
	return "NONE"
}
