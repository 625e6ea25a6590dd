package pcap

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh/internal/object"
)

func buildUDPFrame() []byte {
	udp := append([]byte{0x04, 0xd2, 0x00, 0x35, 0x00, 0x0c, 0x00, 0x00}, []byte("hi")...)
	ip := make([]byte, 20)
	ip[0] = 0x45
	ip[9] = 17 // proto UDP
	copy(ip[12:16], []byte{10, 0, 0, 1})
	copy(ip[16:20], []byte{10, 0, 0, 2})
	ip = append(ip, udp...)

	eth := make([]byte, 14)
	copy(eth[0:6], []byte{0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa})
	copy(eth[6:12], []byte{0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb})
	eth[12], eth[13] = 0x08, 0x00
	return append(eth, ip...)
}

func TestReaderParsesEthIPv4UDP(t *testing.T) {
	frame := buildUDPFrame()

	var buf bytes.Buffer
	hdr := &object.PcapHeader{Magic: MagicUsec, Major: 2, Minor: 4, SnapLen: 65535, LinkType: 1}
	w, err := NewWriter(&buf, hdr)
	require.NoError(t, err)
	require.NoError(t, w.WritePacket(&object.Packet{Sec: 1, Frac: 2, Wirelen: uint32(len(frame)), Raw: frame, Eth: ParseEth(frame)}))
	require.NoError(t, w.Flush())

	rd, err := NewReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(MagicUsec), rd.Header.Magic)

	p, err := rd.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Sec)
	require.NotNil(t, p.Eth)
	require.NotNil(t, p.Eth.IPv4)
	src, ok := p.Eth.IPv4.GetProperty("src")
	require.True(t, ok)
	assert.Equal(t, object.String("10.0.0.1"), src)
	require.NotNil(t, p.Eth.IPv4.UDP)
	assert.Equal(t, uint16(1234), p.Eth.IPv4.UDP.SrcPort)
	assert.Equal(t, []byte("hi"), p.Eth.IPv4.UDP.Payload)

	_, err = rd.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestVlanChain(t *testing.T) {
	rest := buildUDPFrame()[14:] // ipv4+udp bytes, reused as the innermost L3

	var b []byte
	b = append(b, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa) // dst
	b = append(b, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb) // src
	b = append(b, 0x81, 0x00)                         // ethertype: vlan
	b = append(b, 0x00, 0x0a, 0x81, 0x00)              // outer tag: id=10, next=vlan
	b = append(b, 0x00, 0x14, 0x08, 0x00)              // inner tag: id=20, next=ipv4
	b = append(b, rest...)

	e := ParseEth(b)
	require.NotNil(t, e.Vlan)
	assert.Equal(t, uint16(10), e.Vlan.ID)
	require.NotNil(t, e.Vlan.Vlan)
	assert.Equal(t, uint16(20), e.Vlan.Vlan.ID)
	require.NotNil(t, e.Vlan.Vlan.IPv4)
}
