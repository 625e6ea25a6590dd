package object

import (
	"fmt"
)

// Propertied is implemented by values whose fields are reachable through
// `.` property expressions (spec.md §6 "Pcap properties"). Properties
// are get/set by name rather than through reflection so that bit-width
// validation on fixed-width protocol fields (e.g. ipv4.ihl is 4 bits)
// happens at the single point of entry.
type Propertied interface {
	GetProperty(name string) (Value, bool)
	SetProperty(name string, v Value) error
}

// PcapHeader mirrors the global header of a capture file (spec.md §6
// "pcap.{magic, major, minor, thiszone, sigflags, snaplen, linktype}").
type PcapHeader struct {
	Magic    uint32
	Major    uint16
	Minor    uint16
	ThisZone int32
	SigFlags uint32
	SnapLen  uint32
	LinkType uint32
}

func (h *PcapHeader) Type() string   { return "pcap_header" }
func (h *PcapHeader) Truth() bool    { return true }
func (h *PcapHeader) String() string { return fmt.Sprintf("<pcap_header linktype=%d>", h.LinkType) }

func (h *PcapHeader) GetProperty(name string) (Value, bool) {
	switch name {
	case "magic":
		return Int(h.Magic), true
	case "major":
		return Int(h.Major), true
	case "minor":
		return Int(h.Minor), true
	case "thiszone":
		return Int(h.ThisZone), true
	case "sigflags":
		return Int(h.SigFlags), true
	case "snaplen":
		return Int(h.SnapLen), true
	case "linktype":
		return Int(h.LinkType), true
	}
	return nil, false
}

func (h *PcapHeader) SetProperty(name string, v Value) error {
	n, ok := v.(Int)
	if !ok {
		return fmt.Errorf("pcap.%s: expected int, got %s", name, v.Type())
	}
	switch name {
	case "magic":
		h.Magic = uint32(n)
	case "major":
		h.Major = uint16(n)
	case "minor":
		h.Minor = uint16(n)
	case "thiszone":
		h.ThisZone = int32(n)
	case "sigflags":
		h.SigFlags = uint32(n)
	case "snaplen":
		h.SnapLen = uint32(n)
	case "linktype":
		h.LinkType = uint32(n)
	default:
		return fmt.Errorf("pcap: no such property %q", name)
	}
	return nil
}

// Packet is one captured frame: its timestamp, lengths, and the parsed
// ethernet layer (spec.md §6 "packet.{sec, usec|nsec, caplen, wirelen,
// eth, payload}"). Raw holds the unparsed bytes so `.payload` can be
// re-sliced after a mutation changes a length field.
type Packet struct {
	Sec     int64
	Frac    int64 // usec or nsec, per the capture's magic number
	NanoRes bool
	Caplen  uint32
	Wirelen uint32
	Eth     *Eth // nil if the frame was shorter than an ethernet header
	Raw     []byte
}

func (p *Packet) Type() string   { return "packet" }
func (p *Packet) Truth() bool    { return true }
func (p *Packet) String() string { return fmt.Sprintf("<packet caplen=%d wirelen=%d>", p.Caplen, p.Wirelen) }

func (p *Packet) GetProperty(name string) (Value, bool) {
	switch name {
	case "sec":
		return Int(p.Sec), true
	case "usec":
		if p.NanoRes {
			return Int(p.Frac / 1000), true
		}
		return Int(p.Frac), true
	case "nsec":
		if !p.NanoRes {
			return nil, false
		}
		return Int(p.Frac), true
	case "caplen":
		return Int(p.Caplen), true
	case "wirelen":
		return Int(p.Wirelen), true
	case "eth":
		if p.Eth == nil {
			return NullValue, true
		}
		return p.Eth, true
	case "payload":
		return NewArray(bytesToValues(p.Raw)), true
	}
	return nil, false
}

func (p *Packet) SetProperty(name string, v Value) error {
	switch name {
	case "sec":
		n, ok := v.(Int)
		if !ok {
			return fmt.Errorf("packet.sec: expected int, got %s", v.Type())
		}
		p.Sec = int64(n)
	case "usec", "nsec":
		n, ok := v.(Int)
		if !ok {
			return fmt.Errorf("packet.%s: expected int, got %s", name, v.Type())
		}
		if name == "nsec" && !p.NanoRes {
			return fmt.Errorf("packet: no such settable property %q", name)
		}
		if name == "usec" && p.NanoRes {
			n *= 1000
		}
		p.Frac = int64(n)
	case "caplen", "wirelen":
		return fmt.Errorf("packet.%s is derived from payload length and cannot be assigned directly", name)
	default:
		return fmt.Errorf("packet: no such settable property %q", name)
	}
	return nil
}

// Eth is a parsed ethernet header (spec.md §6 "eth.{src, dst, type,
// vlan, ipv4, payload}").
type Eth struct {
	Src, Dst [6]byte
	EthType  uint16
	Vlan     *Vlan // non-nil when EthType == 0x8100
	IPv4     *IPv4 // non-nil when the (possibly post-vlan) ethertype is 0x0800
	Payload  []byte
}

func (e *Eth) Type() string   { return "eth" }
func (e *Eth) Truth() bool    { return true }
func (e *Eth) String() string { return fmt.Sprintf("<eth %s -> %s>", macString(e.Src), macString(e.Dst)) }

func (e *Eth) GetProperty(name string) (Value, bool) {
	switch name {
	case "src":
		return String(macString(e.Src)), true
	case "dst":
		return String(macString(e.Dst)), true
	case "type":
		return Int(e.EthType), true
	case "vlan":
		if e.Vlan == nil {
			return NullValue, true
		}
		return e.Vlan, true
	case "ipv4":
		if e.IPv4 == nil {
			return NullValue, true
		}
		return e.IPv4, true
	case "payload":
		return NewArray(bytesToValues(e.Payload)), true
	}
	return nil, false
}

func (e *Eth) SetProperty(name string, v Value) error {
	switch name {
	case "src":
		return setMAC(&e.Src, name, v)
	case "dst":
		return setMAC(&e.Dst, name, v)
	case "type":
		n, ok := v.(Int)
		if !ok {
			return fmt.Errorf("eth.type: expected int, got %s", v.Type())
		}
		e.EthType = uint16(n)
	default:
		return fmt.Errorf("eth: no such settable property %q", name)
	}
	return nil
}

// Vlan is an 802.1Q tag (spec.md §6 "vlan.{id, priority, dei, type,
// vlan, ipv4, payload}"). Nested vlan tags (QinQ) chain through Vlan.
type Vlan struct {
	ID       uint16 // 12 bits
	Priority uint8  // 3 bits
	DEI      bool
	EthType  uint16
	Vlan     *Vlan
	IPv4     *IPv4
	Payload  []byte
}

func (v *Vlan) Type() string   { return "vlan" }
func (v *Vlan) Truth() bool    { return true }
func (v *Vlan) String() string { return fmt.Sprintf("<vlan id=%d>", v.ID) }

func (v *Vlan) GetProperty(name string) (Value, bool) {
	switch name {
	case "id":
		return Int(v.ID), true
	case "priority":
		return Int(v.Priority), true
	case "dei":
		return Bool(v.DEI), true
	case "type":
		return Int(v.EthType), true
	case "vlan":
		if v.Vlan == nil {
			return NullValue, true
		}
		return v.Vlan, true
	case "ipv4":
		if v.IPv4 == nil {
			return NullValue, true
		}
		return v.IPv4, true
	case "payload":
		return NewArray(bytesToValues(v.Payload)), true
	}
	return nil, false
}

func (v *Vlan) SetProperty(name string, val Value) error {
	n, ok := val.(Int)
	if !ok && name != "dei" {
		return fmt.Errorf("vlan.%s: expected int, got %s", name, val.Type())
	}
	switch name {
	case "id":
		if n < 0 || n > 0xfff {
			return fmt.Errorf("vlan.id: %d out of 12-bit range", n)
		}
		v.ID = uint16(n)
	case "priority":
		if n < 0 || n > 7 {
			return fmt.Errorf("vlan.priority: %d out of 3-bit range", n)
		}
		v.Priority = uint8(n)
	case "dei":
		b, ok := val.(Bool)
		if !ok {
			return fmt.Errorf("vlan.dei: expected bool, got %s", val.Type())
		}
		v.DEI = bool(b)
	case "type":
		v.EthType = uint16(n)
	default:
		return fmt.Errorf("vlan: no such settable property %q", name)
	}
	return nil
}

// IPv4 is a parsed IPv4 header (spec.md §6 "ipv4.{version(ro), ihl,
// totlen, id, dscp, ecn, flags, fragoff, ttl, proto, checksum, src, dst,
// udp, payload}"). Checksums are never recomputed by the runtime.
type IPv4 struct {
	IHL      uint8 // 4 bits
	DSCP     uint8 // 6 bits
	ECN      uint8 // 2 bits
	TotLen   uint16
	ID       uint16
	Flags    uint8  // 3 bits
	FragOff  uint16 // 13 bits
	TTL      uint8
	Proto    uint8
	Checksum uint16
	Src, Dst [4]byte
	UDP      *UDP
	Payload  []byte
}

func (p *IPv4) Type() string   { return "ipv4" }
func (p *IPv4) Truth() bool    { return true }
func (p *IPv4) String() string { return fmt.Sprintf("<ipv4 %s -> %s>", ipString(p.Src), ipString(p.Dst)) }

func (p *IPv4) GetProperty(name string) (Value, bool) {
	switch name {
	case "version":
		return Int(4), true
	case "ihl":
		return Int(p.IHL), true
	case "totlen":
		return Int(p.TotLen), true
	case "id":
		return Int(p.ID), true
	case "dscp":
		return Int(p.DSCP), true
	case "ecn":
		return Int(p.ECN), true
	case "flags":
		return Int(p.Flags), true
	case "fragoff":
		return Int(p.FragOff), true
	case "ttl":
		return Int(p.TTL), true
	case "proto":
		return Int(p.Proto), true
	case "checksum":
		return Int(p.Checksum), true
	case "src":
		return String(ipString(p.Src)), true
	case "dst":
		return String(ipString(p.Dst)), true
	case "udp":
		if p.UDP == nil {
			return NullValue, true
		}
		return p.UDP, true
	case "payload":
		return NewArray(bytesToValues(p.Payload)), true
	}
	return nil, false
}

func (p *IPv4) SetProperty(name string, v Value) error {
	if name == "version" {
		return fmt.Errorf("ipv4.version is read-only")
	}
	if name == "src" {
		return setIP(&p.Src, name, v)
	}
	if name == "dst" {
		return setIP(&p.Dst, name, v)
	}
	n, ok := v.(Int)
	if !ok {
		return fmt.Errorf("ipv4.%s: expected int, got %s", name, v.Type())
	}
	switch name {
	case "ihl":
		if n < 0 || n > 0xf {
			return fmt.Errorf("ipv4.ihl: %d out of 4-bit range", n)
		}
		p.IHL = uint8(n)
	case "totlen":
		p.TotLen = uint16(n)
	case "id":
		p.ID = uint16(n)
	case "dscp":
		if n < 0 || n > 0x3f {
			return fmt.Errorf("ipv4.dscp: %d out of 6-bit range", n)
		}
		p.DSCP = uint8(n)
	case "ecn":
		if n < 0 || n > 3 {
			return fmt.Errorf("ipv4.ecn: %d out of 2-bit range", n)
		}
		p.ECN = uint8(n)
	case "flags":
		if n < 0 || n > 7 {
			return fmt.Errorf("ipv4.flags: %d out of 3-bit range", n)
		}
		p.Flags = uint8(n)
	case "fragoff":
		if n < 0 || n > 0x1fff {
			return fmt.Errorf("ipv4.fragoff: %d out of 13-bit range", n)
		}
		p.FragOff = uint16(n)
	case "ttl":
		if n < 0 || n > 0xff {
			return fmt.Errorf("ipv4.ttl: %d out of 8-bit range", n)
		}
		p.TTL = uint8(n)
	case "proto":
		p.Proto = uint8(n)
	case "checksum":
		p.Checksum = uint16(n)
	default:
		return fmt.Errorf("ipv4: no such settable property %q", name)
	}
	return nil
}

// UDP is a parsed UDP header (spec.md §6 "udp.{srcport, dstport, len,
// checksum, payload}").
type UDP struct {
	SrcPort, DstPort uint16
	Len              uint16
	Checksum         uint16
	Payload          []byte
}

func (u *UDP) Type() string   { return "udp" }
func (u *UDP) Truth() bool    { return true }
func (u *UDP) String() string { return fmt.Sprintf("<udp %d -> %d>", u.SrcPort, u.DstPort) }

func (u *UDP) GetProperty(name string) (Value, bool) {
	switch name {
	case "srcport":
		return Int(u.SrcPort), true
	case "dstport":
		return Int(u.DstPort), true
	case "len":
		return Int(u.Len), true
	case "checksum":
		return Int(u.Checksum), true
	case "payload":
		return NewArray(bytesToValues(u.Payload)), true
	}
	return nil, false
}

func (u *UDP) SetProperty(name string, v Value) error {
	n, ok := v.(Int)
	if !ok {
		return fmt.Errorf("udp.%s: expected int, got %s", name, v.Type())
	}
	switch name {
	case "srcport":
		u.SrcPort = uint16(n)
	case "dstport":
		u.DstPort = uint16(n)
	case "len":
		u.Len = uint16(n)
	case "checksum":
		u.Checksum = uint16(n)
	default:
		return fmt.Errorf("udp: no such settable property %q", name)
	}
	return nil
}

func bytesToValues(b []byte) []Value {
	out := make([]Value, len(b))
	for i, x := range b {
		out[i] = Byte(x)
	}
	return out
}

func macString(b [6]byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[0], b[1], b[2], b[3], b[4], b[5])
}

func ipString(b [4]byte) string {
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
}

func setMAC(dst *[6]byte, name string, v Value) error {
	s, ok := v.(String)
	if !ok {
		return fmt.Errorf("eth.%s: expected string, got %s", name, v.Type())
	}
	var parsed [6]byte
	n, err := fmt.Sscanf(string(s), "%02x:%02x:%02x:%02x:%02x:%02x",
		&parsed[0], &parsed[1], &parsed[2], &parsed[3], &parsed[4], &parsed[5])
	if err != nil || n != 6 {
		return fmt.Errorf("eth.%s: invalid mac address %q", name, s)
	}
	*dst = parsed
	return nil
}

func setIP(dst *[4]byte, name string, v Value) error {
	s, ok := v.(String)
	if !ok {
		return fmt.Errorf("ipv4.%s: expected string, got %s", name, v.Type())
	}
	var parsed [4]byte
	n, err := fmt.Sscanf(string(s), "%d.%d.%d.%d", &parsed[0], &parsed[1], &parsed[2], &parsed[3])
	if err != nil || n != 4 {
		return fmt.Errorf("ipv4.%s: invalid address %q", name, s)
	}
	*dst = parsed
	return nil
}
