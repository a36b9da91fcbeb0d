package chat

import "errors"

// ErrNoBackend is reported to the reply path when no backend is configured;
// the viewer sees the apology line.
var ErrNoBackend = errors.New("no chat backend configured")
