package scm

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/binrec"
	"github.com/mogaika/scstudio/config"
)

// layout holds the absolute offset of every section. It is computed as a
// prefix sum over {header, names, bones, vertices, faces, info} before any
// byte is written, so the header and the bone name offsets are known up front.
type layout struct {
	names       int64
	nameOffsets []int32
	rawNames    [][]byte
	bones       int64
	vertices    int64
	faces       int64
	info        int64
	end         int64
}

func (m *Model) layout(d config.Dialect) (*layout, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if len(m.Faces)%3 != 0 {
		return nil, errors.Wrapf(ErrBadFaceCount, "%d indices", len(m.Faces))
	}

	l := &layout{
		nameOffsets: make([]int32, len(m.Bones)),
		rawNames:    make([][]byte, len(m.Bones)),
	}
	pos := int64(HEADER_SIZE)
	pos += binrec.PadTo(pos, d.Stride)

	l.names = pos
	for i := range m.Bones {
		raw, err := binrec.EncodeCString(m.Bones[i].Name, d)
		if err != nil {
			return nil, errors.Wrapf(err, "Bone %d name", i)
		}
		l.nameOffsets[i] = int32(pos)
		l.rawNames[i] = raw
		pos += int64(len(raw))
	}
	pos += binrec.PadTo(pos, d.Stride)

	l.bones = pos
	pos += int64(len(m.Bones)) * BONE_SIZE
	pos += binrec.PadTo(pos, d.Stride)

	l.vertices = pos
	pos += int64(len(m.Vertices)) * VERTEX_SIZE
	pos += binrec.PadTo(pos, d.Stride)

	l.faces = pos
	pos += int64(len(m.Faces)) * FACE_INDEX_SIZE

	if len(m.Info) != 0 {
		pos += binrec.PadTo(pos, d.Stride)
		l.info = pos
		pos += int64(len(m.Info))
	}
	l.end = pos

	if l.end > 0xffffffff {
		return nil, errors.Errorf("Model too large: 0x%x bytes", l.end)
	}
	return l, nil
}

func (m *Model) header(l *layout) Header {
	h := Header{
		Version:        MODEL_VERSION,
		BoneOffset:     uint32(l.bones),
		BoneCount:      m.Header.BoneCount,
		VertexOffset:   uint32(l.vertices),
		VertexExtra:    m.Header.VertexExtra,
		VertexCount:    uint32(len(m.Vertices)),
		FaceOffset:     uint32(l.faces),
		FaceCount:      uint32(len(m.Faces)),
		InfoOffset:     uint32(l.info),
		InfoLength:     uint32(len(m.Info)),
		TotalBoneCount: uint32(len(m.Bones)),
	}
	copy(h.Magic[:], MODEL_MAGIC)
	if h.BoneCount == 0 || h.BoneCount > h.TotalBoneCount {
		h.BoneCount = h.TotalBoneCount
	}
	return h
}

// Canonical returns the model the way Decode(Encode(m)) sees it: header and
// bone name offsets recomputed for dialect d.
func (m *Model) Canonical(d config.Dialect) (*Model, error) {
	l, err := m.layout(d)
	if err != nil {
		return nil, err
	}

	c := &Model{
		Header:   m.header(l),
		Bones:    make([]Bone, len(m.Bones)),
		Vertices: make([]Vertex, len(m.Vertices)),
		Faces:    make([]uint16, len(m.Faces)),
	}
	copy(c.Bones, m.Bones)
	for i := range c.Bones {
		c.Bones[i].NameOffset = l.nameOffsets[i]
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Faces, m.Faces)
	if len(m.Info) != 0 {
		c.Info = append([]byte(nil), m.Info...)
	}
	return c, nil
}

func Encode(out io.Writer, m *Model, d config.Dialect) error {
	l, err := m.layout(d)
	if err != nil {
		return err
	}
	h := m.header(l)
	w := binrec.NewWriter(out, d)

	if err := w.WriteRecord(&h); err != nil {
		return errors.Wrapf(err, "Header")
	}

	if err := w.WritePadding("NAME"); err != nil {
		return err
	}
	if err := w.Expect(l.names, "NAME"); err != nil {
		return err
	}
	for _, raw := range l.rawNames {
		if _, err := w.Write(raw); err != nil {
			return errors.Wrapf(err, "Names")
		}
	}

	if err := w.WritePadding("BONE"); err != nil {
		return err
	}
	if err := w.Expect(l.bones, "BONE"); err != nil {
		return err
	}
	records := make([]BoneRecord, len(m.Bones))
	for i := range m.Bones {
		records[i] = m.Bones[i].BoneRecord
		records[i].NameOffset = l.nameOffsets[i]
	}
	if err := w.WriteRecord(records); err != nil {
		return errors.Wrapf(err, "Bones")
	}

	if err := w.WritePadding("VERT"); err != nil {
		return err
	}
	if err := w.Expect(l.vertices, "VERT"); err != nil {
		return err
	}
	if err := w.WriteRecord(m.Vertices); err != nil {
		return errors.Wrapf(err, "Vertices")
	}

	if err := w.WritePadding("FACE"); err != nil {
		return err
	}
	if err := w.Expect(l.faces, "FACE"); err != nil {
		return err
	}
	if err := w.WriteRecord(m.Faces); err != nil {
		return errors.Wrapf(err, "Faces")
	}

	if len(m.Info) != 0 {
		if err := w.WritePadding("INFO"); err != nil {
			return err
		}
		if err := w.Expect(l.info, "INFO"); err != nil {
			return err
		}
		if _, err := w.Write(m.Info); err != nil {
			return errors.Wrapf(err, "Info")
		}
	}

	return w.Expect(l.end, "end")
}

func (m *Model) Marshal(d config.Dialect) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
