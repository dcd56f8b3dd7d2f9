package sca

import (
	"bytes"
	"io"
	"log"
	"math"

	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/binrec"
	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/utils"
)

const (
	ANIMATION_MAGIC   = "ANIM"
	ANIMATION_VERSION = 5

	HEADER_SIZE       = 0x24
	FRAME_HEADER_SIZE = 8
	TRANSFORM_SIZE    = 0x1c
	LINK_SIZE         = 4

	// Stored times are seconds; the content tools key every 1/30 s.
	FramesPerSecond = 30
)

type Header struct {
	Magic        [4]byte
	Version      int32
	FrameCount   int32
	Duration     float32
	BoneCount    int32
	NamesOffset  int32
	LinksOffset  int32
	FramesOffset int32
	FrameSize    int32
}

type BoneTransform struct {
	Position [3]float32
	// w, x, y, z
	Rotation [4]float32
}

var IdentityTransform = BoneTransform{Rotation: [4]float32{1, 0, 0, 0}}

type FrameHeader struct {
	Time  float32
	Flags int32
}

type Frame struct {
	FrameHeader
	Bones []BoneTransform
}

type Animation struct {
	Header    Header
	BoneNames []string
	// Parent index per bone. Kept for writing; the hierarchy of the paired
	// model is authoritative.
	Links  []int32
	Frames []Frame
}

func FrameTime(index int) float32 {
	return float32(index) / FramesPerSecond
}

func FrameIndex(time float32) int {
	return int(math.Round(float64(time) * FramesPerSecond))
}

func NewFromData(data []byte) (*Animation, error) {
	return Decode(io.NewSectionReader(bytes.NewReader(data), 0, int64(len(data))), config.GetDialect())
}

func Decode(sr *io.SectionReader, d config.Dialect) (*Animation, error) {
	r := binrec.NewReaderFromSection(sr, d)
	a := &Animation{}

	if err := r.ReadArray(0, &a.Header); err != nil {
		return nil, errors.Wrapf(err, "Failed to read header")
	}
	h := &a.Header
	if string(h.Magic[:]) != ANIMATION_MAGIC {
		return nil, errors.Wrapf(binrec.ErrMalformedHeader, "Invalid magic %q", h.Magic[:])
	}
	if h.Version != ANIMATION_VERSION {
		return nil, errors.Wrapf(binrec.ErrMalformedHeader, "Unsupported version %d", h.Version)
	}
	if h.FrameCount < 0 || h.BoneCount < 0 {
		return nil, errors.Wrapf(binrec.ErrMalformedHeader, "Negative counts: %d frames, %d bones", h.FrameCount, h.BoneCount)
	}
	if want := frameSize(int(h.BoneCount)); h.FrameSize < want {
		return nil, errors.Wrapf(binrec.ErrMalformedHeader, "Frame size %d, %d bones need %d", h.FrameSize, h.BoneCount, want)
	}

	// every name needs at least its terminator
	if err := r.Need(int64(h.NamesOffset), int64(h.BoneCount)); err != nil {
		return nil, errors.Wrapf(err, "Names section")
	}
	a.BoneNames = make([]string, h.BoneCount)
	pos := int64(h.NamesOffset)
	for i := range a.BoneNames {
		raw, err := r.ReadCStringRaw(pos)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read bone %d name", i)
		}
		if a.BoneNames[i], err = utils.BytesToString(raw); err != nil {
			return nil, errors.Wrapf(err, "Bone %d name", i)
		}
		pos += int64(len(raw)) + 1
	}

	// links are not used by readers, a bad table only drops them
	if links := make([]int32, h.BoneCount); r.ReadArray(int64(h.LinksOffset), links) == nil {
		a.Links = links
	} else {
		log.Printf("[sca] Skipping links table at 0x%x: out of bounds", h.LinksOffset)
	}

	pos = int64(h.FramesOffset)
	if d.RootSentinelFrame {
		pos += TRANSFORM_SIZE
	}
	if err := r.Need(pos, int64(h.FrameCount)*int64(h.FrameSize)); err != nil {
		return nil, errors.Wrapf(err, "Frames section")
	}
	a.Frames = make([]Frame, h.FrameCount)
	for i := range a.Frames {
		f := &a.Frames[i]
		if err := r.ReadArray(pos, &f.FrameHeader); err != nil {
			return nil, errors.Wrapf(err, "Failed to read frame %d", i)
		}
		f.Bones = make([]BoneTransform, h.BoneCount)
		if err := r.ReadArray(pos+FRAME_HEADER_SIZE, f.Bones); err != nil {
			return nil, errors.Wrapf(err, "Failed to read frame %d transforms", i)
		}
		pos += int64(h.FrameSize)
	}

	return a, nil
}

func frameSize(bones int) int32 {
	return int32(FRAME_HEADER_SIZE + bones*TRANSFORM_SIZE)
}

// Validate checks the per frame invariants the header promises.
func (a *Animation) Validate() error {
	if len(a.BoneNames) == 0 {
		return errors.New("Animation without bones")
	}
	if len(a.Links) != 0 && len(a.Links) != len(a.BoneNames) {
		return errors.Errorf("%d links for %d bones", len(a.Links), len(a.BoneNames))
	}
	for i := range a.Frames {
		if len(a.Frames[i].Bones) != len(a.BoneNames) {
			return errors.Errorf("Frame %d has %d transforms for %d bones", i, len(a.Frames[i].Bones), len(a.BoneNames))
		}
	}
	return nil
}

func (a *Animation) BoneIndex(name string) int {
	for i, n := range a.BoneNames {
		if n == name {
			return i
		}
	}
	return -1
}
