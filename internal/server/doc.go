// Package server implements the MeshChat TCP chat service: nickname
// validation and reservation, the single broadcast room with bounded history,
// per-connection sessions with rate limiting, and the listener that ties
// their lifecycles together.
package server
