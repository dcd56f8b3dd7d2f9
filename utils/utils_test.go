package utils

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestStringConversion(t *testing.T) {
	bs, err := StringToBytes("Turret01", true)
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != "Turret01\x00" {
		t.Errorf("StringToBytes=%q", bs)
	}

	s, err := BytesToString(append(bs, "garbage"...))
	if err != nil || s != "Turret01" {
		t.Errorf("BytesToString=%q,%v", s, err)
	}

	if _, err := StringToBytes("中", false); err == nil {
		t.Errorf("unencodable rune accepted")
	}
}

func TestDumpToOneLineString(t *testing.T) {
	if s := DumpToOneLineString([]byte("NAME\xc5\x00")); s != `NAME\xc5\x00` {
		t.Errorf("DumpToOneLineString=%q", s)
	}
}

func TestRandomNameGenerator(t *testing.T) {
	var rng RandomNameGenerator
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name := rng.RandomName()
		if seen[name] {
			t.Fatalf("duplicate name %q", name)
		}
		if strings.Contains(name, " ") {
			t.Errorf("name with space %q", name)
		}
		seen[name] = true
	}
	if !strings.Contains(SDump(len(seen)), "50") {
		t.Errorf("SDump output unexpected")
	}
}

func TestQuatToEuler(t *testing.T) {
	for _, test := range []struct {
		axis mgl32.Vec3
		deg  float32
		out  mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, 90, mgl32.Vec3{90, 0, 0}},
		{mgl32.Vec3{0, 1, 0}, 30, mgl32.Vec3{0, 30, 0}},
		{mgl32.Vec3{0, 0, 1}, 120, mgl32.Vec3{0, 0, 120}},
		{mgl32.Vec3{0, 0, 1}, -45, mgl32.Vec3{0, 0, -45}},
	} {
		q := mgl32.QuatRotate(mgl32.DegToRad(test.deg), test.axis)
		if e := RadiansToDegreeV3(QuatToEuler(q)); !e.ApproxEqualThreshold(test.out, 1e-2) {
			t.Errorf("QuatToEuler(%v %v)=%v; expected %v", test.axis, test.deg, e, test.out)
		}
	}
	if e := QuatToEuler(mgl32.QuatIdent()); e != (mgl32.Vec3{}) {
		t.Errorf("identity euler %v", e)
	}
}

func TestColorFloat(t *testing.T) {
	if h := (ColorFloat{1, 1, 0, 1}).Hex(); h != "#ffff00" {
		t.Errorf("Hex=%q", h)
	}
	if _, _, _, a := (ColorFloat{0, 0, 1, 1}).RGBA(); a != 0xffff {
		t.Errorf("alpha %x", a)
	}
}
