package constants

var (
	WebsocketScheme       = "ws"
	WebsocketSecureScheme = "wss"
	HTTPScheme            = "http"
	HTTPSecureScheme      = "https"
)

const (
	OneSecondToNanoSecond = 1_000_000_000

	// StatusOK is the status reported by the server for a statement that executed.
	StatusOK = "OK"
	// StatusErr is the status reported by the server for a statement that failed.
	StatusErr = "ERR"
)
