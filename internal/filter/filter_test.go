package filter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/builtin"
	"github.com/binoyjayan/p2sh/internal/compiler"
	"github.com/binoyjayan/p2sh/internal/machine"
	"github.com/binoyjayan/p2sh/internal/object"
	"github.com/binoyjayan/p2sh/internal/parser"
	"github.com/binoyjayan/p2sh/internal/pcap"
	"github.com/binoyjayan/p2sh/internal/resolver"
)

func ethFrame(wirelen int) []byte {
	eth := make([]byte, 14)
	copy(eth[0:6], []byte{0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa})
	copy(eth[6:12], []byte{0xbb, 0xbb, 0xbb, 0xbb, 0xbb, 0xbb})
	eth[12], eth[13] = 0x08, 0x00
	ip := make([]byte, 20)
	ip[0] = 0x45
	ip[9] = 17
	copy(ip[12:16], []byte{10, 0, 0, 1})
	copy(ip[16:20], []byte{10, 0, 0, 2})
	frame := append(eth, ip...)
	for len(frame) < wirelen {
		frame = append(frame, 0)
	}
	return frame[:wirelen]
}

func buildInputPcap(t *testing.T, wirelens []int) []byte {
	t.Helper()
	var buf bytes.Buffer
	hdr := &object.PcapHeader{Magic: pcap.MagicUsec, Major: 2, Minor: 4, SnapLen: 65535, LinkType: 1}
	w, err := pcap.NewWriter(&buf, hdr)
	require.NoError(t, err)
	for _, wl := range wirelens {
		frame := ethFrame(wl)
		require.NoError(t, w.WritePacket(&object.Packet{
			Wirelen: uint32(wl),
			Raw:     frame,
			Eth:     pcap.ParseEth(frame),
		}))
	}
	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func runScript(t *testing.T, src string, input []byte, skipHeader bool) ([]byte, *machine.VM) {
	t.Helper()
	chunk, err := parser.Parse([]byte(src))
	require.NoError(t, err)

	implicit := append(append([]string{}, builtin.PreludeGlobals...), ImplicitGlobals...)
	res, err := resolver.Resolve(chunk, builtin.Names, implicit)
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, res, builtin.Names)
	require.NoError(t, err)

	vm := machine.New(prog.NumGlobals, nil)
	vm.Builtins = builtin.New(vm)
	builtin.BindPrelude(vm, []string{"script"})

	require.True(t, Needed(prog))

	var out bytes.Buffer
	d, err := NewDriver(vm, prog, bytes.NewReader(input), &out, skipHeader)
	require.NoError(t, err)
	require.NoError(t, d.Run())
	return out.Bytes(), vm
}

// TestFilterKeepsOnlySmallPackets mirrors spec.md §4.D scenario 6: a
// 3-packet input of wire-lengths 40, 80, 200 filtered by `@ WL <= 64
// true` keeps exactly the 40-byte packet.
func TestFilterKeepsOnlySmallPackets(t *testing.T) {
	input := buildInputPcap(t, []int{40, 80, 200})
	out, _ := runScript(t, `@ WL <= 64 true`, input, false)

	rd, err := pcap.NewReader(bytes.NewReader(out))
	require.NoError(t, err)

	p, err := rd.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(40), p.Wirelen)

	_, err = rd.Next()
	assert.Error(t, err)
}

// TestFilterCountsPacketsViaEndUnit exercises NP and `@ end`.
func TestFilterCountsPacketsViaEndUnit(t *testing.T) {
	input := buildInputPcap(t, []int{40, 80})

	src := `
		let total = 0;
		@ { total = NP; }
		@ end { total = total + 1000; }
	`
	_, vm := runScript(t, src, input, true)

	res, err := resolver.Resolve(mustParse(t, src), builtin.Names,
		append(append([]string{}, builtin.PreludeGlobals...), ImplicitGlobals...))
	require.NoError(t, err)

	var idx = -1
	for _, b := range res.Globals {
		if b.Name == "total" {
			idx = b.Index
		}
	}
	require.NotEqual(t, -1, idx)
	assert.Equal(t, object.Int(1002), vm.Globals[idx])
}

func mustParse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	chunk, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	return chunk
}

// TestSkipHeaderDisablesOutput confirms -s suppresses the default pcap
// writer entirely (spec.md §4.J "-s ... disables writing the pcap
// global header and the default per-packet emission").
func TestSkipHeaderDisablesOutput(t *testing.T) {
	input := buildInputPcap(t, []int{40})
	out, _ := runScript(t, `@ true true`, input, true)
	assert.Empty(t, out)
}
