package diam

import (
	"encoding/hex"
	"unicode/utf8"
)

// DecodePacket is a thin, advisory decode: it reads the header and
// flat-scans the AVP list, with no attempt at full Diameter framing
// validation (no E-bit checks, no command-code whitelist). Any failure
// here means the caller should discard the buffer and keep reading — it
// is never treated as a reason to tear down the connection.
func DecodePacket(data []byte) (Header, []AVP, error) {
	header, err := decodeHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	avps, err := extractAVPs(data[HeaderSize:header.MessageLength])
	if err != nil {
		return Header{}, nil, err
	}
	return header, avps, nil
}

// ExtractAVPHex returns the lowercase hex of every AVP matching code.
func ExtractAVPHex(avps []AVP, code uint32) []string {
	var out []string
	for _, a := range avps {
		if a.Code == code {
			out = append(out, hex.EncodeToString(a.Data))
		}
	}
	return out
}

// OriginHost extracts and UTF-8-decodes AVP 264 (Origin-Host) from a raw
// inbound buffer — the only protocol semantics the core itself
// understands. Any error means the peer has not yet been validated; the
// caller must discard the buffer and keep reading.
func OriginHost(data []byte) (string, error) {
	_, avps, err := DecodePacket(data)
	if err != nil {
		return "", err
	}

	hexValues := ExtractAVPHex(avps, OriginHostCode)
	if len(hexValues) == 0 {
		return "", ErrAVPNotFound
	}

	raw, err := hex.DecodeString(hexValues[0])
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", ErrAVPNotFound
	}
	return string(raw), nil
}
