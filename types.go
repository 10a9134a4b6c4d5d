package abstractions

// Auth is the signin payload. Namespace and Database scope the user; leave
// them empty for a root user.
type Auth struct {
	Namespace string `json:"NS,omitempty" cbor:"NS,omitempty"`
	Database  string `json:"DB,omitempty" cbor:"DB,omitempty"`
	Scope     string `json:"SC,omitempty" cbor:"SC,omitempty"`
	Username  string `json:"user,omitempty" cbor:"user,omitempty"`
	Password  string `json:"pass,omitempty" cbor:"pass,omitempty"`
}
