// Package pcap implements the classic pcap capture-file codec and the
// ethernet/vlan/ipv4/udp layer parsers that populate object.Packet's
// property tree (spec.md §1 "Out of scope... assumed to yield a fixed
// record", §6 "Pcap properties"). No example repo or other_examples/
// file imports a packet-capture library, so this is grounded directly
// on the wire format rather than any retrieved dependency: encoding/binary
// for the fixed-width header fields, nothing else.
package pcap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/binoyjayan/p2sh/internal/object"
)

// Classic pcap magic numbers. The byte order of every other field in the
// file is inferred from which of these (or their byte-swapped form) the
// first four bytes match.
const (
	MagicUsec = 0xa1b2c3d4
	MagicNsec = 0xa1b23c4d
)

const globalHeaderLen = 24
const packetHeaderLen = 16

// Reader streams packets out of a classic pcap capture.
type Reader struct {
	r       *bufio.Reader
	order   binary.ByteOrder
	nanoRes bool
	Header  *object.PcapHeader
}

// NewReader reads and decodes r's global header, inferring byte order
// and timestamp resolution from the magic number.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	var raw [globalHeaderLen]byte
	if _, err := io.ReadFull(br, raw[:]); err != nil {
		return nil, fmt.Errorf("pcap: reading global header: %w", err)
	}

	order, nanoRes, ok := detectOrder(raw[:4])
	if !ok {
		return nil, fmt.Errorf("pcap: unrecognized magic number %x", raw[:4])
	}

	hdr := &object.PcapHeader{
		Magic:    order.Uint32(raw[0:4]),
		Major:    order.Uint16(raw[4:6]),
		Minor:    order.Uint16(raw[6:8]),
		ThisZone: int32(order.Uint32(raw[8:12])),
		SigFlags: order.Uint32(raw[12:16]),
		SnapLen:  order.Uint32(raw[16:20]),
		LinkType: order.Uint32(raw[20:24]),
	}
	return &Reader{r: br, order: order, nanoRes: nanoRes, Header: hdr}, nil
}

func detectOrder(magic []byte) (binary.ByteOrder, bool, bool) {
	le := binary.LittleEndian.Uint32(magic)
	be := binary.BigEndian.Uint32(magic)
	switch le {
	case MagicUsec:
		return binary.LittleEndian, false, true
	case MagicNsec:
		return binary.LittleEndian, true, true
	}
	switch be {
	case MagicUsec:
		return binary.BigEndian, false, true
	case MagicNsec:
		return binary.BigEndian, true, true
	}
	return nil, false, false
}

// Next reads the next packet record, parsing its ethernet/vlan/ipv4/udp
// layers. It returns io.EOF once the stream is exhausted.
func (rd *Reader) Next() (*object.Packet, error) {
	var raw [packetHeaderLen]byte
	if _, err := io.ReadFull(rd.r, raw[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}

	sec := int64(rd.order.Uint32(raw[0:4]))
	frac := int64(rd.order.Uint32(raw[4:8]))
	caplen := rd.order.Uint32(raw[8:12])
	wirelen := rd.order.Uint32(raw[12:16])

	data := make([]byte, caplen)
	if _, err := io.ReadFull(rd.r, data); err != nil {
		return nil, fmt.Errorf("pcap: short packet record: %w", err)
	}

	p := &object.Packet{
		Sec:     sec,
		Frac:    frac,
		NanoRes: rd.nanoRes,
		Caplen:  caplen,
		Wirelen: wirelen,
		Raw:     data,
	}
	if len(data) >= ethHeaderLen {
		p.Eth = ParseEth(data)
	}
	return p, nil
}

// Writer serializes object.Packet values back into a classic pcap
// stream, re-encoding the parsed layers so that property mutations
// (spec.md §6) are reflected on the wire; checksums are carried through
// unmodified, per spec.md's "checksums are NOT auto-recomputed".
type Writer struct {
	w     *bufio.Writer
	order binary.ByteOrder
}

// NewWriter writes hdr as the global header and returns a Writer for
// the packets that follow. Byte order always matches hdr.Magic.
func NewWriter(w io.Writer, hdr *object.PcapHeader) (*Writer, error) {
	order, _, ok := detectOrder(magicBytes(hdr.Magic))
	if !ok {
		order = binary.LittleEndian
	}
	bw := bufio.NewWriter(w)
	var raw [globalHeaderLen]byte
	order.PutUint32(raw[0:4], hdr.Magic)
	order.PutUint16(raw[4:6], hdr.Major)
	order.PutUint16(raw[6:8], hdr.Minor)
	order.PutUint32(raw[8:12], uint32(hdr.ThisZone))
	order.PutUint32(raw[12:16], hdr.SigFlags)
	order.PutUint32(raw[16:20], hdr.SnapLen)
	order.PutUint32(raw[20:24], hdr.LinkType)
	if _, err := bw.Write(raw[:]); err != nil {
		return nil, fmt.Errorf("pcap: writing global header: %w", err)
	}
	return &Writer{w: bw, order: order}, nil
}

func magicBytes(magic uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], magic)
	return b[:]
}

// WritePacket re-serializes p's parsed layers (if present) over its raw
// bytes and appends the resulting record.
func (wr *Writer) WritePacket(p *object.Packet) error {
	data := p.Raw
	if p.Eth != nil {
		data = SerializeEth(p.Eth)
	}

	var raw [packetHeaderLen]byte
	wr.order.PutUint32(raw[0:4], uint32(p.Sec))
	wr.order.PutUint32(raw[4:8], uint32(p.Frac))
	wr.order.PutUint32(raw[8:12], uint32(len(data)))
	wr.order.PutUint32(raw[12:16], p.Wirelen)
	if _, err := wr.w.Write(raw[:]); err != nil {
		return err
	}
	_, err := wr.w.Write(data)
	return err
}

// Flush forces buffered writes out (backs the `flush` built-in for pcap
// output streams).
func (wr *Writer) Flush() error { return wr.w.Flush() }
