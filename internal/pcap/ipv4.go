package pcap

import (
	"encoding/binary"

	"github.com/binoyjayan/p2sh/internal/object"
)

const ipv4MinHeaderLen = 20
const protoUDP = 17

// ParseIPv4 decodes b's IPv4 header (spec.md §6 "ipv4.{version(ro), ihl,
// totlen, id, dscp, ecn, flags, fragoff, ttl, proto, checksum, src, dst,
// udp, payload}"). Header options beyond the fixed 20 bytes are skipped
// rather than retained, since no property exposes them.
func ParseIPv4(b []byte) *object.IPv4 {
	if len(b) < ipv4MinHeaderLen {
		return nil
	}
	ihl := b[0] & 0x0f
	flagsFrag := binary.BigEndian.Uint16(b[6:8])

	p := &object.IPv4{
		IHL:      ihl,
		DSCP:     b[1] >> 2,
		ECN:      b[1] & 0x3,
		TotLen:   binary.BigEndian.Uint16(b[2:4]),
		ID:       binary.BigEndian.Uint16(b[4:6]),
		Flags:    uint8(flagsFrag >> 13),
		FragOff:  flagsFrag & 0x1fff,
		TTL:      b[8],
		Proto:    b[9],
		Checksum: binary.BigEndian.Uint16(b[10:12]),
	}
	copy(p.Src[:], b[12:16])
	copy(p.Dst[:], b[16:20])

	hdrLen := int(ihl) * 4
	if hdrLen < ipv4MinHeaderLen || hdrLen > len(b) {
		hdrLen = ipv4MinHeaderLen
	}
	rest := b[hdrLen:]
	p.Payload = rest

	if p.Proto == protoUDP {
		p.UDP = ParseUDP(rest)
	}
	return p
}

// SerializeIPv4 re-encodes p into raw IPv4 header + payload bytes,
// reflecting property mutations; the checksum field is written through
// unmodified (spec.md §6: "checksums are NOT auto-recomputed").
func SerializeIPv4(p *object.IPv4) []byte {
	out := make([]byte, ipv4MinHeaderLen, ipv4MinHeaderLen+len(p.Payload))
	out[0] = 4<<4 | p.IHL&0x0f
	out[1] = p.DSCP<<2 | p.ECN&0x3
	binary.BigEndian.PutUint16(out[2:4], p.TotLen)
	binary.BigEndian.PutUint16(out[4:6], p.ID)
	flagsFrag := uint16(p.Flags&0x7)<<13 | p.FragOff&0x1fff
	binary.BigEndian.PutUint16(out[6:8], flagsFrag)
	out[8] = p.TTL
	out[9] = p.Proto
	binary.BigEndian.PutUint16(out[10:12], p.Checksum)
	copy(out[12:16], p.Src[:])
	copy(out[16:20], p.Dst[:])

	if p.UDP != nil {
		out = append(out, SerializeUDP(p.UDP)...)
	} else {
		out = append(out, p.Payload...)
	}
	return out
}
