package scm

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var ErrBadHierarchy = errors.New("invalid bone hierarchy")

// ValidateHierarchy checks that every parent index is -1 or points to an
// earlier bone and that the skeleton has exactly one root.
func (m *Model) ValidateHierarchy() error {
	roots := 0
	for i, b := range m.Bones {
		switch {
		case b.ParentIndex == -1:
			roots++
		case b.ParentIndex < -1 || int(b.ParentIndex) >= i:
			return errors.Wrapf(ErrBadHierarchy, "bone %d %q has parent %d", i, b.Name, b.ParentIndex)
		}
	}
	if len(m.Bones) != 0 && roots != 1 {
		return errors.Wrapf(ErrBadHierarchy, "%d roots", roots)
	}
	return nil
}

func (m *Model) Validate() error {
	if err := m.ValidateHierarchy(); err != nil {
		return err
	}
	if len(m.Faces)%3 != 0 {
		return errors.Wrapf(ErrBadFaceCount, "%d indices", len(m.Faces))
	}
	for i, index := range m.Faces {
		if int(index) >= len(m.Vertices) {
			return errors.Errorf("Face index %d at %d out of %d vertices", index, i, len(m.Vertices))
		}
	}
	for i, v := range m.Vertices {
		if len(m.Bones) != 0 && int(v.BoneIndices[0]) >= len(m.Bones) {
			return errors.Errorf("Vertex %d bound to missing bone %d", i, v.BoneIndices[0])
		}
	}
	return nil
}

func (b *BoneRecord) Quat() mgl32.Quat {
	return mgl32.Quat{W: b.Rotation[0], V: mgl32.Vec3{b.Rotation[1], b.Rotation[2], b.Rotation[3]}}
}

// Local is the rest transform relative to the parent bone.
func (b *BoneRecord) Local() mgl32.Mat4 {
	return mgl32.Translate3D(b.Position[0], b.Position[1], b.Position[2]).Mul4(b.Quat().Normalize().Mat4())
}

// InverseBind reinterprets the stored row-major, row-vector matrix as a
// column-major, column-vector one; both share the same memory order.
func (b *BoneRecord) InverseBind() mgl32.Mat4 {
	return mgl32.Mat4(b.InverseBindMatrix)
}

func (b *BoneRecord) BindPose() mgl32.Mat4 {
	return b.InverseBind().Inv()
}

type Skeleton struct {
	Names  []string
	Parent []int
	Local  []mgl32.Mat4
	World  []mgl32.Mat4
}

// BuildSkeleton chains local rest transforms from the root down. The model
// must pass ValidateHierarchy.
func (m *Model) BuildSkeleton() (*Skeleton, error) {
	if err := m.ValidateHierarchy(); err != nil {
		return nil, err
	}
	s := &Skeleton{
		Names:  make([]string, len(m.Bones)),
		Parent: make([]int, len(m.Bones)),
		Local:  make([]mgl32.Mat4, len(m.Bones)),
		World:  make([]mgl32.Mat4, len(m.Bones)),
	}
	for i := range m.Bones {
		b := &m.Bones[i]
		s.Names[i] = b.Name
		s.Parent[i] = int(b.ParentIndex)
		s.Local[i] = b.Local()
		if b.ParentIndex >= 0 {
			s.World[i] = s.World[b.ParentIndex].Mul4(s.Local[i])
		} else {
			s.World[i] = s.Local[i]
		}
	}
	return s, nil
}

func (s *Skeleton) BoneIndex(name string) int {
	for i, n := range s.Names {
		if n == name {
			return i
		}
	}
	return -1
}

func (m *Model) BoneIndex(name string) int {
	for i := range m.Bones {
		if m.Bones[i].Name == name {
			return i
		}
	}
	return -1
}
