package binrec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/utils"
)

const cstringChunk = 64

// Reader reads little-endian records at absolute offsets. It keeps no
// position of its own, but the underlying source is not required to be safe
// for concurrent use, so a Reader must not be shared between goroutines.
type Reader struct {
	source      io.ReaderAt
	size        int64
	terminators []byte
}

func NewReader(source io.ReaderAt, size int64, d config.Dialect) *Reader {
	r := &Reader{
		source:      source,
		size:        size,
		terminators: []byte{0},
	}
	if d.SentinelTerminatesStrings {
		r.terminators = append(r.terminators, d.PadByte)
	}
	return r
}

func NewReaderFromSection(sr *io.SectionReader, d config.Dialect) *Reader {
	return NewReader(sr, sr.Size(), d)
}

func (r *Reader) Size() int64 {
	return r.size
}

// Need reports ErrTruncatedFile when [off, off+length) is not inside the
// stream. Decoders call it before allocating record slices so a corrupt
// count cannot trigger a huge allocation.
func (r *Reader) Need(off int64, length int64) error {
	if off < 0 || length < 0 || off > r.size || length > r.size-off {
		return errors.Wrapf(ErrTruncatedFile, "need 0x%x bytes at 0x%x, stream size 0x%x", length, off, r.size)
	}
	return nil
}

func (r *Reader) ReadAt(p []byte, off int64) error {
	if err := r.Need(off, int64(len(p))); err != nil {
		return err
	}
	n, err := r.source.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrTruncatedFile, "got 0x%x of 0x%x bytes at 0x%x", n, len(p), off)
	}
	return errors.Wrapf(err, "Failed to read 0x%x bytes at 0x%x", len(p), off)
}

// ReadArray decodes fixed layout records into out, which must be a pointer
// to a fixed size value or a slice of them already sized to the record count.
func (r *Reader) ReadArray(off int64, out interface{}) error {
	size := binary.Size(out)
	if size < 0 {
		return errors.Errorf("Type %T has no fixed layout", out)
	}

	buf := make([]byte, size)
	if err := r.ReadAt(buf, off); err != nil {
		return err
	}
	return binary.Read(bytes.NewReader(buf), binary.LittleEndian, out)
}

func (r *Reader) isTerminator(b byte) bool {
	return bytes.IndexByte(r.terminators, b) >= 0
}

// ReadCString reads bytes from off until a terminator and decodes them with
// the configured code page.
func (r *Reader) ReadCString(off int64) (string, error) {
	raw, err := r.ReadCStringRaw(off)
	if err != nil {
		return "", err
	}
	return utils.BytesToString(raw)
}

// ReadCStringRaw returns the bytes before the terminator, so len(raw)+1 is
// the stored size of the entry.
func (r *Reader) ReadCStringRaw(off int64) ([]byte, error) {
	if off < 0 || off >= r.size {
		return nil, errors.Wrapf(ErrUnterminatedString, "string offset 0x%x outside of stream size 0x%x", off, r.size)
	}

	var raw []byte
	var chunk [cstringChunk]byte
	for pos := off; pos < r.size; pos += cstringChunk {
		l := int64(len(chunk))
		if r.size-pos < l {
			l = r.size - pos
		}
		if err := r.ReadAt(chunk[:l], pos); err != nil {
			return nil, err
		}
		for i, b := range chunk[:l] {
			if r.isTerminator(b) {
				return append(raw, chunk[:i]...), nil
			}
		}
		raw = append(raw, chunk[:l]...)
	}
	return nil, errors.Wrapf(ErrUnterminatedString, "string at 0x%x", off)
}
