package gltfutils

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// Quat converts to glTF x,y,z,w order.
func Quat(q mgl32.Quat) [4]float32 {
	return q.V.Vec4(q.W)
}

func Mat4(m mgl32.Mat4) [4][4]float32 {
	var r [4][4]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[col][row] = m.At(row, col)
		}
	}
	return r
}

// WriteTimes stores keyframe times with the min/max bounds samplers require.
func WriteTimes(doc *gltf.Document, times []float32) uint32 {
	index := modeler.WriteAccessor(doc, gltf.TargetNone, times)
	if len(times) != 0 {
		doc.Accessors[index].Min = []float32{times[0]}
		doc.Accessors[index].Max = []float32{times[len(times)-1]}
	}
	return index
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
