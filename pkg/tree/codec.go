package tree

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrTruncated        = errors.New("unexpected end of stream")
	ErrInvalidSignature = errors.New("not a visitree document")
	ErrCorrupt          = errors.New("corrupt document")
)

// ErrUnsupportedVersion is an ErrInvalidSignature: the magic matched but the
// version field did not.
var ErrUnsupportedVersion = fmt.Errorf("%w: unsupported format version", ErrInvalidSignature)

// ErrTooDeep is an ErrCorrupt: the tree nests more than MaxDepth levels.
var ErrTooDeep = fmt.Errorf("%w: nesting too deep", ErrCorrupt)

const (
	Magic      = "VISTREE"
	MagicSize  = len(Magic)
	VersionV1  = 1
	HeaderSize = MagicSize + 4 + 4 // magic + version + data length

	// MaxNameLen bounds node and field names read from a stream.
	MaxNameLen = 1 << 16
	// MaxDepth bounds how many levels below the root a document may nest.
	MaxDepth = 1 << 14
)

// Header precedes the node blocks in every file.
type Header struct {
	Version    uint32
	DataLength uint32
}

func encodeHeader(buf []byte, h Header) []byte {
	buf = append(buf, Magic...)
	buf = binary.LittleEndian.AppendUint32(buf, h.Version)
	return binary.LittleEndian.AppendUint32(buf, h.DataLength)
}

// ParseHeader validates the magic and version at the start of buf.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < MagicSize {
		return Header{}, fmt.Errorf("%w: reading magic", ErrTruncated)
	}
	if !bytes.Equal(buf[:MagicSize], []byte(Magic)) {
		return Header{}, ErrInvalidSignature
	}
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: reading header", ErrTruncated)
	}
	h := Header{
		Version:    binary.LittleEndian.Uint32(buf[MagicSize:]),
		DataLength: binary.LittleEndian.Uint32(buf[MagicSize+4:]),
	}
	if h.Version == 0 || h.Version > VersionV1 {
		return Header{}, fmt.Errorf("%w: got %d, support up to %d", ErrUnsupportedVersion, h.Version, VersionV1)
	}
	return h, nil
}

// ------------------------------------------------------------------------------
// Encoding
// ------------------------------------------------------------------------------

type encoder struct {
	out []byte
}

func (e *encoder) name(s string) {
	e.out = binary.LittleEndian.AppendUint32(e.out, uint32(len(s)))
	e.out = append(e.out, s...)
}

func (e *encoder) node(n *Node, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: deeper than %d levels at %s", ErrTooDeep, MaxDepth, n.Path())
	}
	e.name(n.Name)
	e.out = binary.LittleEndian.AppendUint32(e.out, uint32(len(n.Fields)))
	for _, f := range n.Fields {
		e.name(f.Name)
		e.out = binary.LittleEndian.AppendUint32(e.out, f.Size)
		e.out = append(e.out, byte(f.Type))
		e.out = binary.LittleEndian.AppendUint32(e.out, f.Offset)
	}
	e.out = binary.LittleEndian.AppendUint32(e.out, uint32(len(n.Children)))
	for _, c := range n.Children {
		if err := e.node(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// MarshalBinary encodes the header, the node tree depth first and then the
// arena as one trailer.
func (d *Document) MarshalBinary() ([]byte, error) {
	if uint64(len(d.Data)) > 1<<32-1 {
		return nil, fmt.Errorf("arena of %d bytes does not fit a 32-bit length", len(d.Data))
	}
	e := encoder{out: make([]byte, 0, HeaderSize+len(d.Data)+256)}
	e.out = encodeHeader(e.out, Header{Version: d.Version, DataLength: uint32(len(d.Data))})
	if err := e.node(d.Root, 0); err != nil {
		return nil, err
	}
	e.out = append(e.out, d.Data...)
	return e.out, nil
}

// WriteTo writes the encoded document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	b, err := d.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// SaveFile writes d to path, replacing any existing file.
func SaveFile(path string, d *Document) error {
	b, err := d.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write document %s: %w", path, err)
	}
	return nil
}

// ------------------------------------------------------------------------------
// Decoding
// ------------------------------------------------------------------------------

type decoder struct {
	r       io.Reader
	scratch [4]byte
}

func (d *decoder) full(b []byte, what string) error {
	if _, err := io.ReadFull(d.r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: reading %s", ErrTruncated, what)
		}
		return fmt.Errorf("reading %s: %w", what, err)
	}
	return nil
}

func (d *decoder) u32(what string) (uint32, error) {
	if err := d.full(d.scratch[:], what); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(d.scratch[:]), nil
}

func (d *decoder) name(what string) (string, error) {
	n, err := d.u32(what + " name length")
	if err != nil {
		return "", err
	}
	if n > MaxNameLen {
		return "", fmt.Errorf("%w: %s name of %d bytes", ErrCorrupt, what, n)
	}
	b := make([]byte, n)
	if err := d.full(b, what+" name"); err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) field() (Field, error) {
	var f Field
	var err error
	if f.Name, err = d.name("field"); err != nil {
		return f, err
	}
	if f.Size, err = d.u32("field size"); err != nil {
		return f, err
	}
	if err = d.full(d.scratch[:1], "field type"); err != nil {
		return f, err
	}
	f.Type = DataType(d.scratch[0])
	if !f.Type.Valid() {
		return f, fmt.Errorf("%w: field %q has unknown type %d", ErrCorrupt, f.Name, f.Type)
	}
	if f.Offset, err = d.u32("field offset"); err != nil {
		return f, err
	}
	return f, nil
}

func (d *decoder) node(depth int) (*Node, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: deeper than %d levels", ErrTooDeep, MaxDepth)
	}
	name, err := d.name("node")
	if err != nil {
		return nil, err
	}
	n := NewNode(name)
	count, err := d.u32("field count")
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		f, err := d.field()
		if err != nil {
			return nil, err
		}
		n.AddField(f)
	}
	if count, err = d.u32("child count"); err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		c, err := d.node(depth + 1)
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}
	return n, nil
}

// ReadDocument decodes a document from r. On any error nothing is returned:
// a partially read tree is dropped with the decoder.
func ReadDocument(r io.Reader) (*Document, error) {
	d := decoder{r: bufio.NewReader(r)}
	hb := make([]byte, HeaderSize)
	n, err := io.ReadFull(d.r, hb)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	h, err := ParseHeader(hb[:n])
	if err != nil {
		return nil, err
	}
	root, err := d.node(0)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(d.r, int64(h.DataLength)))
	if err != nil {
		return nil, fmt.Errorf("reading data block: %w", err)
	}
	if uint32(len(data)) != h.DataLength {
		return nil, fmt.Errorf("%w: data block has %d of %d bytes", ErrTruncated, len(data), h.DataLength)
	}
	doc := &Document{Version: h.Version, Root: root, Data: data}
	if err := doc.validate(doc.Root); err != nil {
		return nil, err
	}
	return doc, nil
}

// UnmarshalBinary replaces d with the document encoded in b.
func (d *Document) UnmarshalBinary(b []byte) error {
	doc, err := ReadDocument(bytes.NewReader(b))
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// LoadFile reads and decodes the document stored at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	doc, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// validate checks every field lies inside the arena.
func (d *Document) validate(n *Node) error {
	for _, f := range n.Fields {
		if _, err := d.Bytes(f); err != nil {
			return fmt.Errorf("node %s: %w", n.Path(), err)
		}
	}
	for _, c := range n.Children {
		if err := d.validate(c); err != nil {
			return err
		}
	}
	return nil
}
