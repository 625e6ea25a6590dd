package builtin

import (
	"fmt"
	"io"
	"os"

	"github.com/binoyjayan/p2sh/internal/object"
	"github.com/binoyjayan/p2sh/internal/pcap"
)

// pcapStream is the script-visible handle returned by pcap_open_read/
// pcap_open_write: a file plus whichever half of internal/pcap's codec
// applies. Its header fields are reachable through `.` the same way as
// any other protocol layer (spec.md §6 "pcap.{magic, major, minor,
// thiszone, sigflags, snaplen, linktype}"), delegated to the embedded
// object.PcapHeader.
type pcapStream struct {
	file   *os.File
	reader *pcap.Reader
	writer *pcap.Writer
	header *object.PcapHeader
	closed bool
}

func (p *pcapStream) Type() string { return "pcap_stream" }
func (p *pcapStream) Truth() bool  { return !p.closed }
func (p *pcapStream) String() string {
	if p.writer != nil {
		return fmt.Sprintf("<pcap_stream write %q>", p.file.Name())
	}
	return fmt.Sprintf("<pcap_stream read %q>", p.file.Name())
}

func (p *pcapStream) GetProperty(name string) (object.Value, bool) {
	return p.header.GetProperty(name)
}

func (p *pcapStream) SetProperty(name string, v object.Value) error {
	return p.header.SetProperty(name, v)
}

// defaultSnapLen is Registry.defaultSnapLen's fallback when New is
// called without a snapLen override.
const defaultSnapLen = 262144

func (r *Registry) builtinPcapOpenRead(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("pcap_open_read: expected 1 argument, got %d", len(args))
	}
	path, ok := args[0].(object.String)
	if !ok {
		return nil, fmt.Errorf("pcap_open_read: path must be a string, got %s", args[0].Type())
	}

	f, err := os.Open(string(path))
	if err != nil {
		return r.ioError(err), nil
	}
	rd, err := pcap.NewReader(f)
	if err != nil {
		f.Close()
		return r.ioError(err), nil
	}
	return &pcapStream{file: f, reader: rd, header: rd.Header}, nil
}

func (r *Registry) builtinPcapOpenWrite(args []object.Value) (object.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("pcap_open_write: expected 1 or 2 arguments, got %d", len(args))
	}
	path, ok := args[0].(object.String)
	if !ok {
		return nil, fmt.Errorf("pcap_open_write: path must be a string, got %s", args[0].Type())
	}
	snaplen := r.defaultSnapLen
	if len(args) == 2 {
		n, ok := args[1].(object.Int)
		if !ok {
			return nil, fmt.Errorf("pcap_open_write: snaplen must be an int, got %s", args[1].Type())
		}
		snaplen = uint32(n)
	}

	f, err := os.Create(string(path))
	if err != nil {
		return r.ioError(err), nil
	}
	hdr := &object.PcapHeader{Magic: pcap.MagicUsec, Major: 2, Minor: 4, SnapLen: snaplen, LinkType: 1}
	wr, err := pcap.NewWriter(f, hdr)
	if err != nil {
		f.Close()
		return r.ioError(err), nil
	}
	return &pcapStream{file: f, writer: wr, header: hdr}, nil
}

func (r *Registry) builtinPcapReadNext(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("pcap_read_next: expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(*pcapStream)
	if !ok || s.reader == nil {
		return nil, fmt.Errorf("pcap_read_next: expected a read-mode pcap stream")
	}
	p, err := s.reader.Next()
	if err == io.EOF {
		return object.NullValue, nil
	}
	if err != nil {
		return r.ioError(err), nil
	}
	return p, nil
}

func (r *Registry) builtinPcapWrite(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("pcap_write: expected 2 arguments, got %d", len(args))
	}
	s, ok := args[0].(*pcapStream)
	if !ok || s.writer == nil {
		return nil, fmt.Errorf("pcap_write: expected a write-mode pcap stream")
	}
	p, ok := args[1].(*object.Packet)
	if !ok {
		return nil, fmt.Errorf("pcap_write: expected a packet, got %s", args[1].Type())
	}
	if err := s.writer.WritePacket(p); err != nil {
		return r.ioError(err), nil
	}
	return object.NullValue, nil
}

func (r *Registry) builtinPcapClose(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("pcap_close: expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(*pcapStream)
	if !ok {
		return nil, fmt.Errorf("pcap_close: expected a pcap stream, got %s", args[0].Type())
	}
	if s.closed {
		return object.NullValue, nil
	}
	s.closed = true
	if s.writer != nil {
		if err := s.writer.Flush(); err != nil {
			return r.ioError(err), nil
		}
	}
	if err := s.file.Close(); err != nil {
		return r.ioError(err), nil
	}
	return object.NullValue, nil
}
