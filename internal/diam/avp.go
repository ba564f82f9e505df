package diam

const (
	avpCodeSize     = 4
	avpFlagsSize    = 1
	avpLengthSize   = 3
	avpVendorIDSize = 4

	avpHeaderLength      = avpCodeSize + avpFlagsSize + avpLengthSize
	avpHeaderLengthWithV = avpHeaderLength + avpVendorIDSize

	// VendorFlag marks an AVP header as carrying a Vendor-Id field.
	VendorFlag = 0x80

	// OriginHostCode is AVP 264, Origin-Host, the only AVP this decoder
	// needs to be able to find.
	OriginHostCode = uint32(264)
)

// AVP is a flat, undecoded Attribute-Value Pair: just enough structure to
// walk the AVP list and pull out a code's raw payload. There is no
// per-type decoding registry — nothing past Origin-Host needs
// type-specific decoding here.
type AVP struct {
	Code     uint32
	Flags    uint8
	Length   uint32 // header + data, as encoded on the wire
	VendorID uint32
	Data     []byte
}

func avpPadding(length int) int {
	return (4 - (length % 4)) % 4
}

// decodeAVP reads a single AVP starting at data[0].
func decodeAVP(data []byte) (AVP, int, error) {
	if len(data) < avpHeaderLength {
		return AVP{}, 0, ErrShortAVP
	}

	var a AVP
	offset := 0

	a.Code = fromBytes[uint32](data[offset : offset+avpCodeSize])
	offset += avpCodeSize

	a.Flags = data[offset]
	offset += avpFlagsSize

	a.Length = fromBytes[uint32](data[offset : offset+avpLengthSize])
	offset += avpLengthSize

	headerLen := avpHeaderLength
	if a.Flags&VendorFlag != 0 {
		if len(data) < avpHeaderLengthWithV {
			return AVP{}, 0, ErrShortAVP
		}
		a.VendorID = fromBytes[uint32](data[offset : offset+avpVendorIDSize])
		offset += avpVendorIDSize
		headerLen = avpHeaderLengthWithV
	}

	if int(a.Length) < headerLen || len(data) < int(a.Length) {
		return AVP{}, 0, ErrShortAVP
	}

	a.Data = data[offset:a.Length]
	advance := int(a.Length) + avpPadding(int(a.Length))
	return a, advance, nil
}

// extractAVPs walks a buffer of back-to-back AVPs (as found after a
// Diameter header), stopping on the first decode error.
func extractAVPs(data []byte) ([]AVP, error) {
	avps := make([]AVP, 0)
	offset := 0
	for offset < len(data) {
		avp, advance, err := decodeAVP(data[offset:])
		if err != nil {
			return nil, err
		}
		avps = append(avps, avp)
		offset += advance
	}
	return avps, nil
}
