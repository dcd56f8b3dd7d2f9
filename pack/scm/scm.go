package scm

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/binrec"
	"github.com/mogaika/scstudio/config"
)

const (
	MODEL_MAGIC   = "MODL"
	MODEL_VERSION = 5

	HEADER_SIZE     = 0x30
	BONE_SIZE       = 0x6c
	VERTEX_SIZE     = 0x44
	FACE_INDEX_SIZE = 2
)

var ErrBadFaceCount = errors.New("face index count is not a multiple of 3")

type Header struct {
	Magic        [4]byte
	Version      uint32
	BoneOffset   uint32
	BoneCount    uint32
	VertexOffset uint32
	// Highest bone influence slot in use. The retail exporter writes 0.
	VertexExtra    uint32
	VertexCount    uint32
	FaceOffset     uint32
	FaceCount      uint32
	InfoOffset     uint32
	InfoLength     uint32
	TotalBoneCount uint32
}

type BoneRecord struct {
	// Row-major, translation in the last row.
	InverseBindMatrix [16]float32
	Position          [3]float32
	// w, x, y, z
	Rotation    [4]float32
	NameOffset  int32
	ParentIndex int32
	Reserved    [2]int32
}

type Bone struct {
	BoneRecord
	Name string
}

type Vertex struct {
	Position [3]float32
	Tangent  [3]float32
	Normal   [3]float32
	Binormal [3]float32
	UV0      [2]float32
	UV1      [2]float32
	// Single bone skinning, only the first slot is used.
	BoneIndices [4]uint8
}

type Model struct {
	Header   Header
	Bones    []Bone
	Vertices []Vertex
	// Triangle list, triangle i is Faces[3*i:3*i+3].
	Faces []uint16
	Info  []byte
}

func NewFromData(data []byte) (*Model, error) {
	return Decode(io.NewSectionReader(bytes.NewReader(data), 0, int64(len(data))), config.GetDialect())
}

func Decode(sr *io.SectionReader, d config.Dialect) (*Model, error) {
	r := binrec.NewReaderFromSection(sr, d)
	m := &Model{}

	if err := r.ReadArray(0, &m.Header); err != nil {
		return nil, errors.Wrapf(err, "Failed to read header")
	}
	h := &m.Header
	if string(h.Magic[:]) != MODEL_MAGIC {
		return nil, errors.Wrapf(binrec.ErrMalformedHeader, "Invalid magic %q", h.Magic[:])
	}
	if h.Version != MODEL_VERSION {
		return nil, errors.Wrapf(binrec.ErrMalformedHeader, "Unsupported version %d", h.Version)
	}
	if h.BoneCount > h.TotalBoneCount {
		return nil, errors.Wrapf(binrec.ErrMalformedHeader, "Used bones %d > total bones %d", h.BoneCount, h.TotalBoneCount)
	}

	if err := r.Need(int64(h.BoneOffset), int64(h.TotalBoneCount)*BONE_SIZE); err != nil {
		return nil, errors.Wrapf(err, "Bones section")
	}
	records := make([]BoneRecord, h.TotalBoneCount)
	if err := r.ReadArray(int64(h.BoneOffset), records); err != nil {
		return nil, errors.Wrapf(err, "Failed to read bones")
	}
	m.Bones = make([]Bone, len(records))
	for i, rec := range records {
		name, err := r.ReadCString(int64(rec.NameOffset))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read bone %d name", i)
		}
		m.Bones[i] = Bone{BoneRecord: rec, Name: name}
	}

	if err := r.Need(int64(h.VertexOffset), int64(h.VertexCount)*VERTEX_SIZE); err != nil {
		return nil, errors.Wrapf(err, "Vertices section")
	}
	m.Vertices = make([]Vertex, h.VertexCount)
	if err := r.ReadArray(int64(h.VertexOffset), m.Vertices); err != nil {
		return nil, errors.Wrapf(err, "Failed to read vertices")
	}

	// Indices are stored as int16 by some tools; unsigned keeps 32768..65535 usable.
	if err := r.Need(int64(h.FaceOffset), int64(h.FaceCount)*FACE_INDEX_SIZE); err != nil {
		return nil, errors.Wrapf(err, "Faces section")
	}
	m.Faces = make([]uint16, h.FaceCount)
	if err := r.ReadArray(int64(h.FaceOffset), m.Faces); err != nil {
		return nil, errors.Wrapf(err, "Failed to read faces")
	}

	if h.InfoLength != 0 {
		if err := r.Need(int64(h.InfoOffset), int64(h.InfoLength)); err != nil {
			return nil, errors.Wrapf(err, "Info section")
		}
		m.Info = make([]byte, h.InfoLength)
		if err := r.ReadAt(m.Info, int64(h.InfoOffset)); err != nil {
			return nil, errors.Wrapf(err, "Failed to read info")
		}
	}

	return m, nil
}
