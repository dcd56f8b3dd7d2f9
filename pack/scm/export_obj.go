package scm

import (
	"fmt"
	"io"
)

func (m *Model) ExportObj(_w io.Writer, name string, material string) error {
	var werr error
	w := func(format string, args ...interface{}) {
		if werr == nil {
			_, werr = _w.Write(([]byte)(fmt.Sprintf(format+"\n", args...)))
		}
	}

	for _, v := range m.Vertices {
		w("v %f %f %f", v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range m.Vertices {
		w("vt %f %f", v.UV0[0], 1-v.UV0[1])
	}
	for _, v := range m.Vertices {
		w("vn %f %f %f", v.Normal[0], v.Normal[1], v.Normal[2])
	}

	w("o %s", name)
	if material != "" {
		w("usemtl %s", material)
	}
	for i := 0; i+2 < len(m.Faces); i += 3 {
		a, b, c := uint32(m.Faces[i])+1, uint32(m.Faces[i+1])+1, uint32(m.Faces[i+2])+1
		w("f %v/%v/%v %v/%v/%v %v/%v/%v", a, a, a, b, b, b, c, c, c)
	}
	return werr
}
