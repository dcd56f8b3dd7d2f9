package sca

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/binrec"
	"github.com/mogaika/scstudio/config"
)

type layout struct {
	names    int64
	rawNames [][]byte
	links    int64
	frames   int64
	end      int64
}

func (a *Animation) layout(d config.Dialect) (*layout, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	l := &layout{rawNames: make([][]byte, len(a.BoneNames))}
	pos := int64(HEADER_SIZE)
	pos += binrec.PadTo(pos, d.Stride)

	l.names = pos
	for i, name := range a.BoneNames {
		raw, err := binrec.EncodeCString(name, d)
		if err != nil {
			return nil, errors.Wrapf(err, "Bone %d name", i)
		}
		l.rawNames[i] = raw
		pos += int64(len(raw))
	}
	pos += binrec.PadTo(pos, d.Stride)

	l.links = pos
	pos += int64(len(a.BoneNames)) * LINK_SIZE
	pos += binrec.PadTo(pos, d.Stride)

	l.frames = pos
	if d.RootSentinelFrame {
		pos += TRANSFORM_SIZE
	}
	pos += int64(len(a.Frames)) * int64(frameSize(len(a.BoneNames)))
	l.end = pos

	if l.end > 0x7fffffff {
		return nil, errors.Errorf("Animation too large: 0x%x bytes", l.end)
	}
	return l, nil
}

func (a *Animation) duration() float32 {
	if a.Header.Duration != 0 || len(a.Frames) == 0 {
		return a.Header.Duration
	}
	return a.Frames[len(a.Frames)-1].Time
}

func (a *Animation) links() []int32 {
	if len(a.Links) != 0 {
		return a.Links
	}
	links := make([]int32, len(a.BoneNames))
	for i := range links {
		links[i] = -1
	}
	return links
}

func (a *Animation) header(l *layout) Header {
	h := Header{
		Version:      ANIMATION_VERSION,
		FrameCount:   int32(len(a.Frames)),
		Duration:     a.duration(),
		BoneCount:    int32(len(a.BoneNames)),
		NamesOffset:  int32(l.names),
		LinksOffset:  int32(l.links),
		FramesOffset: int32(l.frames),
		FrameSize:    frameSize(len(a.BoneNames)),
	}
	copy(h.Magic[:], ANIMATION_MAGIC)
	return h
}

// Canonical returns the animation the way Decode(Encode(a)) sees it.
func (a *Animation) Canonical(d config.Dialect) (*Animation, error) {
	l, err := a.layout(d)
	if err != nil {
		return nil, err
	}
	c := &Animation{
		Header:    a.header(l),
		BoneNames: append([]string{}, a.BoneNames...),
		Links:     append([]int32{}, a.links()...),
		Frames:    make([]Frame, len(a.Frames)),
	}
	for i, f := range a.Frames {
		c.Frames[i] = Frame{
			FrameHeader: f.FrameHeader,
			Bones:       append([]BoneTransform{}, f.Bones...),
		}
	}
	return c, nil
}

func Encode(out io.Writer, a *Animation, d config.Dialect) error {
	l, err := a.layout(d)
	if err != nil {
		return err
	}
	h := a.header(l)
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

	if err := w.WritePadding("LINK"); err != nil {
		return err
	}
	if err := w.Expect(l.links, "LINK"); err != nil {
		return err
	}
	if err := w.WriteRecord(a.links()); err != nil {
		return errors.Wrapf(err, "Links")
	}

	if err := w.WritePadding("DATA"); err != nil {
		return err
	}
	if err := w.Expect(l.frames, "DATA"); err != nil {
		return err
	}
	if d.RootSentinelFrame {
		if err := w.WriteRecord(&IdentityTransform); err != nil {
			return errors.Wrapf(err, "Root frame")
		}
	}
	for i := range a.Frames {
		f := &a.Frames[i]
		if err := w.WriteRecord(&f.FrameHeader); err != nil {
			return errors.Wrapf(err, "Frame %d", i)
		}
		if err := w.WriteRecord(f.Bones); err != nil {
			return errors.Wrapf(err, "Frame %d transforms", i)
		}
	}

	return w.Expect(l.end, "end")
}

func (a *Animation) Marshal(d config.Dialect) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, a, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
