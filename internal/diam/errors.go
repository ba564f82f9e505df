// Package diam implements the thin Diameter frame decoding the front-end
// core needs to identify a peer. It does not attempt full Diameter framing
// validation: beyond the version octet and a header-declared length that
// fits the buffer, nothing (command code, E-bit) is checked — see decode.go.
package diam

import "errors"

var (
	// ErrShortHeader is returned when a buffer is smaller than a Diameter header.
	ErrShortHeader = errors.New("diam: buffer shorter than a diameter header")
	// ErrShortMessage is returned when the header's declared length exceeds the buffer.
	ErrShortMessage = errors.New("diam: buffer shorter than the header-declared message length")
	// ErrBadVersion is returned when the Diameter version octet is not 1.
	ErrBadVersion = errors.New("diam: unsupported diameter version")
	// ErrShortAVP is returned when an AVP header runs past the end of the buffer.
	ErrShortAVP = errors.New("diam: truncated AVP header")
	// ErrAVPNotFound is returned by OriginHost when the buffer carries no
	// Origin-Host AVP or its payload is not valid UTF-8.
	ErrAVPNotFound = errors.New("diam: avp code not present")
)
