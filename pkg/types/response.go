package types

// ServerTimeLayout is the wall-clock format stamped on every response body.
const ServerTimeLayout = "2006-01-02T15:04:05"

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Envelope is the uniform response body. Success bodies carry either a
// single result or a results list; error bodies carry neither.
type Envelope struct {
	Status     string `json:"status"`
	Code       int    `json:"code"`
	ServerTime string `json:"server_time"`
	Message    string `json:"message"`
	Result     any    `json:"result,omitempty"`
	Results    any    `json:"results,omitempty"`
}
