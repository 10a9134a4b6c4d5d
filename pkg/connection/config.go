package connection

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/tosic/surrealdb-abstractions/internal/codec"
	"github.com/tosic/surrealdb-abstractions/pkg/models"
)

// Config carries what an engine needs to reach a SurrealDB endpoint.
type Config struct {
	URL         url.URL
	BaseURL     string
	Marshaler   codec.Marshaler
	Unmarshaler codec.Unmarshaler
	Logger      zerolog.Logger
	// Timeout bounds a single RPC round trip. Zero disables it.
	Timeout time.Duration
}

// NewConfig creates a Config for the endpoint at u, such as
// "ws://localhost:8000" or "http://localhost:8000", using the CBOR codec.
func NewConfig(u *url.URL) *Config {
	return &Config{
		URL:         *u,
		Marshaler:   models.CborMarshaler{},
		Unmarshaler: models.CborUnmarshaler{},
		BaseURL:     fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		Logger:      zerolog.New(os.Stderr).With().Timestamp().Logger(),
		Timeout:     DefaultTimeout,
	}
}
