package unit

import (
	"fmt"
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/scstudio/pack/sca"
	"github.com/mogaika/scstudio/pack/scm"
	"github.com/mogaika/scstudio/utils/gltfutils"
)

type GLTFSkeletonExported struct {
	JointNodes []uint32
	Skin       uint32
	Root       uint32
}

func exportSkeleton(doc *gltf.Document, name string, m *scm.Model) (*GLTFSkeletonExported, error) {
	skel, err := m.BuildSkeleton()
	if err != nil {
		return nil, err
	}

	tfse := &GLTFSkeletonExported{JointNodes: make([]uint32, len(m.Bones))}
	inverseBinds := make([][4][4]float32, len(m.Bones))

	for i := range m.Bones {
		b := &m.Bones[i]
		tfse.JointNodes[i] = uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        b.Name,
			Translation: b.Position,
			Rotation:    gltfutils.Quat(b.Quat().Normalize()),
			Scale:       [3]float32{1, 1, 1},
		})
		inverseBinds[i] = gltfutils.Mat4(skel.World[i].Inv())

		if b.ParentIndex >= 0 {
			parent := doc.Nodes[tfse.JointNodes[b.ParentIndex]]
			parent.Children = append(parent.Children, tfse.JointNodes[i])
		} else {
			tfse.Root = tfse.JointNodes[i]
		}
	}

	tfse.Skin = uint32(len(doc.Skins))
	doc.Skins = append(doc.Skins, &gltf.Skin{
		Name:                name,
		Joints:              tfse.JointNodes,
		Skeleton:            gltf.Index(tfse.Root),
		InverseBindMatrices: gltf.Index(modeler.WriteAccessor(doc, gltf.TargetNone, inverseBinds)),
	})
	return tfse, nil
}

func exportMaterial(doc *gltf.Document, name string, mat Material) uint32 {
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        name,
		DoubleSided: true,
		Extras: map[string]interface{}{
			"shader":     mat.Shader,
			"albedo":     mat.Albedo,
			"specteam":   mat.SpecTeam,
			"team_color": mat.TeamColor,
			"team_hex":   mat.TeamColor.Hex(),
		},
	})
	return uint32(len(doc.Materials) - 1)
}

// exportMesh writes lod geometry. jointMap translates the lod bone indices
// to skin joints.
func exportMesh(doc *gltf.Document, name string, m *scm.Model, jointMap []int, material uint32) uint32 {
	count := len(m.Vertices)
	positions := make([][3]float32, count)
	normals := make([][3]float32, count)
	uvs := make([][2]float32, count)
	joints := make([][4]uint16, count)
	weights := make([][4]float32, count)

	for i := range m.Vertices {
		v := &m.Vertices[i]
		positions[i] = v.Position

		normal := mgl32.Vec3(v.Normal)
		if normal.Len() > 0.5 {
			normal = normal.Normalize()
		} else {
			normal = mgl32.Vec3{0, 1, 0}
		}
		normals[i] = normal
		uvs[i] = v.UV0

		if bone := int(v.BoneIndices[0]); bone < len(jointMap) {
			joints[i][0] = uint16(jointMap[bone])
		}
		weights[i] = [4]float32{1, 0, 0, 0}
	}

	indices := make([]uint32, len(m.Faces))
	for i, index := range m.Faces {
		indices[i] = uint32(index)
	}

	attributes := map[string]uint32{
		"POSITION":   modeler.WritePosition(doc, positions),
		"NORMAL":     modeler.WriteNormal(doc, normals),
		"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
	}
	if len(jointMap) != 0 {
		attributes["JOINTS_0"] = modeler.WriteJoints(doc, joints)
		attributes["WEIGHTS_0"] = modeler.WriteWeights(doc, weights)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{
			{
				Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
				Attributes: attributes,
				Material:   gltf.Index(material),
			},
		},
	})
	return uint32(len(doc.Meshes) - 1)
}

// clipTimes uses stored frame times unless they fail to increase, then
// falls back to the 30 fps grid.
func clipTimes(anim *sca.Animation) []float32 {
	times := make([]float32, len(anim.Frames))
	for i := range anim.Frames {
		times[i] = anim.Frames[i].Time
		if i > 0 && times[i] <= times[i-1] {
			for j := range times {
				times[j] = sca.FrameTime(j)
			}
			break
		}
	}
	return times
}

func exportClip(doc *gltf.Document, clip *Clip, model *scm.Model, tfse *GLTFSkeletonExported) error {
	anim := clip.Animation
	if len(anim.Frames) == 0 {
		return nil
	}

	pairing, err := PairAnimation(model, anim)
	if err != nil {
		return err
	}
	if len(pairing.Unmatched) != 0 {
		log.Printf("[unit] %s: %d bones not in model: %v", clip.FileName, len(pairing.Unmatched), pairing.Unmatched)
	}

	input := gltfutils.WriteTimes(doc, clipTimes(anim))
	ga := &gltf.Animation{Name: clip.FileName}

	addChannel := func(node uint32, path gltf.TRSProperty, output uint32) {
		ga.Samplers = append(ga.Samplers, &gltf.AnimationSampler{
			Input:         gltf.Index(input),
			Output:        gltf.Index(output),
			Interpolation: gltf.InterpolationLinear,
		})
		ga.Channels = append(ga.Channels, &gltf.Channel{
			Sampler: gltf.Index(uint32(len(ga.Samplers) - 1)),
			Target: gltf.ChannelTarget{
				Node: gltf.Index(node),
				Path: path,
			},
		})
	}

	for _, track := range pairing.Tracks {
		translations := make([][3]float32, len(anim.Frames))
		rotations := make([][4]float32, len(anim.Frames))
		for i := range anim.Frames {
			t := &anim.Frames[i].Bones[track.Channel]
			translations[i] = t.Position
			q := mgl32.Quat{W: t.Rotation[0], V: mgl32.Vec3{t.Rotation[1], t.Rotation[2], t.Rotation[3]}}
			rotations[i] = gltfutils.Quat(q.Normalize())
		}

		node := tfse.JointNodes[track.Bone]
		addChannel(node, gltf.TRSTranslation, modeler.WriteAccessor(doc, gltf.TargetNone, translations))
		addChannel(node, gltf.TRSRotation, modeler.WriteAccessor(doc, gltf.TargetNone, rotations))
	}

	doc.Animations = append(doc.Animations, ga)
	return nil
}

// ExportGLTF builds a document with one skinned mesh per lod sharing the
// primary model skeleton, and one animation per clip.
func (u *Unit) ExportGLTF() (*gltf.Document, error) {
	doc := gltfutils.NewDocument()
	model := u.Model()

	var tfse *GLTFSkeletonExported
	if len(model.Bones) != 0 {
		var err error
		if tfse, err = exportSkeleton(doc, u.Id, model); err != nil {
			return nil, errors.Wrapf(err, "Skeleton")
		}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, tfse.Root)
	}

	for _, lod := range u.LODs {
		name := fmt.Sprintf("%s_lod%d", u.Id, lod.Index)

		var jointMap []int
		if tfse != nil {
			jointMap = make([]int, len(lod.Model.Bones))
			for i, b := range lod.Model.Bones {
				if j := model.BoneIndex(b.Name); j >= 0 {
					jointMap[i] = j
				}
			}
		}

		mesh := exportMesh(doc, name, lod.Model, jointMap, exportMaterial(doc, name, lod.Material))
		node := &gltf.Node{
			Name:  name,
			Mesh:  gltf.Index(mesh),
			Scale: [3]float32{1, 1, 1},
		}
		if tfse != nil {
			node.Skin = gltf.Index(tfse.Skin)
		}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, node)
	}

	if tfse != nil {
		for _, clip := range u.Clips {
			if err := exportClip(doc, clip, model, tfse); err != nil {
				log.Printf("[unit] %s: clip %s skipped: %v", u.Id, clip.FileName, err)
			}
		}
	}

	return doc, nil
}

func (u *Unit) ExportGLTFBinary(w io.Writer) error {
	doc, err := u.ExportGLTF()
	if err != nil {
		return err
	}
	return gltfutils.ExportBinary(w, doc)
}
