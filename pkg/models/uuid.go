package models

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/gofrs/uuid"
)

// UUID represents a UUID v4 or v7 value, sent over CBOR with tag 37.
//
// [CBOR tag documentation]: https://surrealdb.com/docs/surrealdb/integration/cbor#tag-37
type UUID struct {
	uuid.UUID
}

// NewUUID returns a random version 4 UUID.
func NewUUID() (UUID, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return UUID{}, err
	}
	return UUID{UUID: u}, nil
}

func ParseUUID(s string) (UUID, error) {
	u, err := uuid.FromString(s)
	if err != nil {
		return UUID{}, err
	}
	return UUID{UUID: u}, nil
}

func (u UUID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  uint64(BinaryUUIDTag),
		Content: u.Bytes(),
	})
}

func (u *UUID) UnmarshalCBOR(data []byte) error {
	var tag cbor.Tag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return err
	}

	if tag.Number != uint64(BinaryUUIDTag) {
		return fmt.Errorf("unexpected tag number for UUID: got %d, want %d", tag.Number, BinaryUUIDTag)
	}

	bytes, ok := tag.Content.([]byte)
	if !ok {
		return fmt.Errorf("UUID tag content must be byte string, got %T", tag.Content)
	}

	parsed, err := uuid.FromBytes(bytes)
	if err != nil {
		return fmt.Errorf("failed to parse UUID bytes: %w", err)
	}

	u.UUID = parsed
	return nil
}

func (u UUID) SurrealQL() string {
	return "u'" + u.String() + "'"
}
