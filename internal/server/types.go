package server

import (
	"errors"
	"io"
	"net"
	"strings"
)

// isExpectedCloseError checks if an error is routine during connection
// teardown, so ordinary disconnects are not logged as failures.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "connection reset by peer") ||
		strings.Contains(errStr, "broken pipe")
}
