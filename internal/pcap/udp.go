package pcap

import (
	"encoding/binary"

	"github.com/binoyjayan/p2sh/internal/object"
)

const udpHeaderLen = 8

// ParseUDP decodes b's UDP header (spec.md §6 "udp.{srcport, dstport,
// len, checksum, payload}").
func ParseUDP(b []byte) *object.UDP {
	if len(b) < udpHeaderLen {
		return nil
	}
	return &object.UDP{
		SrcPort:  binary.BigEndian.Uint16(b[0:2]),
		DstPort:  binary.BigEndian.Uint16(b[2:4]),
		Len:      binary.BigEndian.Uint16(b[4:6]),
		Checksum: binary.BigEndian.Uint16(b[6:8]),
		Payload:  b[8:],
	}
}

// SerializeUDP re-encodes u into raw UDP header + payload bytes.
func SerializeUDP(u *object.UDP) []byte {
	out := make([]byte, udpHeaderLen, udpHeaderLen+len(u.Payload))
	binary.BigEndian.PutUint16(out[0:2], u.SrcPort)
	binary.BigEndian.PutUint16(out[2:4], u.DstPort)
	binary.BigEndian.PutUint16(out[4:6], u.Len)
	binary.BigEndian.PutUint16(out[6:8], u.Checksum)
	out = append(out, u.Payload...)
	return out
}
