package tzif

import (
	"bytes"
	"fmt"
	"io"
)

// Data is the v1 portion of a TZif file.
type Data struct {
	Header Header
	V1Data V1DataBlock
}

// Encode writes the header and v1 data block to w.
func (d Data) Encode(w io.Writer) error {
	if err := d.Header.Write(w); err != nil {
		return fmt.Errorf("write v1 header: %w", err)
	}
	if err := d.V1Data.Write(w); err != nil {
		return fmt.Errorf("write v1 data: %w", err)
	}
	return nil
}

// Decode reads the header and v1 data block from r, which holds size
// octets starting at the header. Headers whose counts describe more data
// than that are refused before anything is allocated. Anything that follows
// the v1 block, such as a version 2+ header, is left unread.
func Decode(r io.Reader, size int64) (Data, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Data{}, fmt.Errorf("read v1 header: %w", err)
	}
	if need, have := h.V1DataSize(), size-headerSize; need > have {
		return Data{}, fmt.Errorf("v1 data block needs %d octets, have %d: %w", need, have, io.ErrUnexpectedEOF)
	}
	blk, err := ReadV1DataBlock(r, h)
	if err != nil {
		return Data{}, fmt.Errorf("read v1 data block: %w", err)
	}
	return Data{Header: h, V1Data: blk}, nil
}

// DecodeBytes decodes the TZif file b.
func DecodeBytes(b []byte) (Data, error) {
	return Decode(bytes.NewReader(b), int64(len(b)))
}
