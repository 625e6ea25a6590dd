package pcap

import (
	"encoding/binary"

	"github.com/binoyjayan/p2sh/internal/object"
)

const (
	ethHeaderLen  = 14
	vlanHeaderLen = 4
	ethTypeVlan   = 0x8100
	ethTypeIPv4   = 0x0800
)

// ParseEth decodes b's ethernet header (spec.md §6 "eth.{src, dst, type,
// vlan, ipv4, payload}"), descending through any 802.1Q tags (QinQ
// chains through Vlan.Vlan) and, once the ethertype resolves to IPv4,
// the ipv4/udp layers beneath it.
func ParseEth(b []byte) *object.Eth {
	if len(b) < ethHeaderLen {
		return nil
	}
	e := &object.Eth{EthType: binary.BigEndian.Uint16(b[12:14])}
	copy(e.Dst[:], b[0:6])
	copy(e.Src[:], b[6:12])
	rest := b[14:]

	typ := e.EthType
	for typ == ethTypeVlan && len(rest) >= vlanHeaderLen {
		v := parseVlanTag(rest)
		rest = rest[vlanHeaderLen:]
		typ = v.EthType
		if typ == ethTypeIPv4 {
			v.IPv4 = ParseIPv4(rest)
		}
		v.Payload = rest
		if e.Vlan == nil {
			e.Vlan = v
		} else {
			attachInnerVlan(e.Vlan, v)
		}
	}
	if typ == ethTypeIPv4 {
		e.IPv4 = ParseIPv4(rest)
	}
	e.Payload = rest
	return e
}

func attachInnerVlan(top, inner *object.Vlan) {
	for top.Vlan != nil {
		top = top.Vlan
	}
	top.Vlan = inner
}

func parseVlanTag(b []byte) *object.Vlan {
	tci := binary.BigEndian.Uint16(b[0:2])
	return &object.Vlan{
		Priority: uint8(tci >> 13),
		DEI:      tci&0x1000 != 0,
		ID:       tci & 0x0fff,
		EthType:  binary.BigEndian.Uint16(b[2:4]),
	}
}

// SerializeEth re-encodes e into raw ethernet-frame bytes, reflecting
// any property mutations made to e or its nested layers; checksums in
// the IPv4/UDP layers beneath are carried through unmodified.
func SerializeEth(e *object.Eth) []byte {
	out := make([]byte, 0, ethHeaderLen+len(e.Payload))
	out = append(out, e.Dst[:]...)
	out = append(out, e.Src[:]...)

	typ := e.EthType
	if e.Vlan != nil {
		typ = ethTypeVlan
	}
	out = appendUint16(out, typ)

	if e.Vlan != nil {
		out = append(out, serializeVlanChain(e.Vlan)...)
	} else if e.IPv4 != nil {
		out = append(out, SerializeIPv4(e.IPv4)...)
	} else {
		out = append(out, e.Payload...)
	}
	return out
}

func serializeVlanChain(v *object.Vlan) []byte {
	tci := uint16(v.Priority)<<13 | uint16(v.ID)&0x0fff
	if v.DEI {
		tci |= 0x1000
	}
	typ := v.EthType
	if v.Vlan != nil {
		typ = ethTypeVlan
	}
	out := appendUint16(nil, tci)
	out = appendUint16(out, typ)

	switch {
	case v.Vlan != nil:
		out = append(out, serializeVlanChain(v.Vlan)...)
	case v.IPv4 != nil:
		out = append(out, SerializeIPv4(v.IPv4)...)
	default:
		out = append(out, v.Payload...)
	}
	return out
}

func appendUint16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}
