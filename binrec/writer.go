package binrec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/utils"
)

const TAG_SIZE = 4

// PadTo returns the amount of padding placed after a section ending at
// size. A gap too small for the 4 byte tag is widened by one stride, so an
// already aligned size still gets a full stride.
func PadTo(size int64, stride int) int64 {
	s := int64(stride)
	pad := s - size%s
	if pad < TAG_SIZE {
		pad += s
	}
	return pad
}

// Writer emits records while tracking the absolute offset so callers can
// check it against the layout computed up front.
type Writer struct {
	w       io.Writer
	pos     int64
	stride  int
	padByte byte
	dialect config.Dialect
}

func NewWriter(w io.Writer, d config.Dialect) *Writer {
	return &Writer{w: w, stride: d.Stride, padByte: d.PadByte, dialect: d}
}

func (w *Writer) Pos() int64 {
	return w.pos
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}

func (w *Writer) WriteRecord(v interface{}) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		return errors.Wrapf(err, "Failed to encode %T", v)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeCString encodes s with the name table code page and a nul
// terminator. When the dialect reads the pad byte as a terminator, a name
// containing it would come back cut, so it is refused.
func EncodeCString(s string, d config.Dialect) ([]byte, error) {
	bs, err := utils.StringToBytes(s, true)
	if err != nil {
		return nil, err
	}
	if d.SentinelTerminatesStrings {
		if i := bytes.IndexByte(bs, d.PadByte); i >= 0 {
			return nil, errors.Wrapf(ErrSentinelInString, "%q byte %d is 0x%x", s, i, d.PadByte)
		}
	}
	return bs, nil
}

func (w *Writer) WriteCString(s string) error {
	bs, err := EncodeCString(s, w.dialect)
	if err != nil {
		return err
	}
	_, err = w.Write(bs)
	return err
}

// WritePadding aligns the stream to the stride. The gap is filled with the
// pad byte and ends with tag, a marker for people reading hex dumps.
func (w *Writer) WritePadding(tag string) error {
	if len(tag) != TAG_SIZE {
		return errors.Errorf("Section tag %q must be %d bytes", tag, TAG_SIZE)
	}
	pad := make([]byte, PadTo(w.pos, w.stride))
	for i := range pad {
		pad[i] = w.padByte
	}
	copy(pad[len(pad)-TAG_SIZE:], tag)
	_, err := w.Write(pad)
	return err
}

// Expect fails when the writer drifted from the precomputed section offset.
func (w *Writer) Expect(off int64, section string) error {
	if w.pos != off {
		return errors.Errorf("Section %s layout mismatch: at 0x%x, header says 0x%x", section, w.pos, off)
	}
	return nil
}
