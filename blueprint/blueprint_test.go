package blueprint

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

const unitBlueprint = `
# T1 assault bot
UnitBlueprint {
    Description = "<LOC uel0106_desc>Light Assault Bot", -- tooltip
    Display = {
        AnimationWalk = '/units/uel0106/uel0106_awalk01.sca',
        AnimationWalkRate = 4.2,
        Mesh = {
            IconFadeInZoom = 130,
            LODs = {
                {
                    LODCutoff = 100,
                    ShaderName = 'Unit',
                },
                {
                    AlbedoName = 'uel0106_lod1_albedo.dds',
                    LODCutoff = 215,
                    ShaderName = 'Unit',
                    SpecularName = 'uel0106_lod1_specteam.dds',
                },
            },
        },
        UniformScale = 0.05,
    },
    General = {
        Category = 'Bot',
        FactionName = 'UEF',
        Icon = 'land',
        Capturable = true,
        Hidden = false,
        OrderOverrides = nil,
    },
    Weapon = {
        {
            Audio = {
                Fire = Sound { Bank = 'UELWeapon', Cue = 'UEL0106_MachineGun', LodCutoff = 'Weapon_LodCutoff' },
            },
            DamageRadius = 0,
            FiringTolerance = -2,
        },
    },
}
`

func TestParseList(t *testing.T) {
	d, err := Parse([]byte(`a = {1, 2, 3}`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := d.Get("a")
	if !reflect.DeepEqual(v, []interface{}{int64(1), int64(2), int64(3)}) {
		t.Errorf("a = %#v", v)
	}
}

func TestParseTable(t *testing.T) {
	d, err := Parse([]byte(`a = {x = 1, y = 2}`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := d.Get("a")
	want := map[string]interface{}{"x": int64(1), "y": int64(2)}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("a = %#v", v)
	}
}

func TestParseScalars(t *testing.T) {
	for _, test := range []struct {
		text string
		want interface{}
	}{
		{`v = 42`, int64(42)},
		{`v = 4.5`, 4.5},
		{`v = -2`, float64(-2)},
		{`v = 1e3`, 1000.0},
		{`v = .5`, 0.5},
		{`v = true`, true},
		{`v = false`, false},
		{`v = "text"`, "text"},
		{`v = 'it\'s'`, "it's"},
		{`v = "a\"b\\c"`, `a"b\c`},
		{`v = "line\nnext"`, "line\nnext"},
		{`v = 'c:\units\x'`, `c:\units\x`},
		{`v = '  padded  '`, "  padded  "},
		{`v = 99999999999999999999`, 1e20},
	} {
		d, err := Parse([]byte(test.text), Options{})
		if err != nil {
			t.Errorf("%s: %v", test.text, err)
			continue
		}
		if v, _ := d.Get("v"); !reflect.DeepEqual(v, test.want) {
			t.Errorf("%s: got %#v want %#v", test.text, v, test.want)
		}
	}
}

func TestParseNilOmitted(t *testing.T) {
	d, err := Parse([]byte(`t = { a = nil, b = 1 }`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Get("t.a"); ok {
		t.Errorf("nil entry kept")
	}
	if d.Count("t") != 1 {
		t.Errorf("count %d", d.Count("t"))
	}
}

func TestParseMixedTable(t *testing.T) {
	d, err := Parse([]byte(`t = { 'first', key = 'v', 'second' }`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"0": "first", "1": "second", "key": "v"}
	if !reflect.DeepEqual(d.Root.(map[string]interface{})["t"], want) {
		t.Errorf("t = %#v", d.Root)
	}
}

func TestParseEmptyTable(t *testing.T) {
	d, err := Parse([]byte(`t = {}`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := d.Get("t"); !reflect.DeepEqual(v, map[string]interface{}{}) {
		t.Errorf("t = %#v", v)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, text := range []string{
		`t = { a = 1`,
		`t = { a = 1 }}`,
		`t = { a = }`,
		`t = `,
		`t = { a = 1 b = 2 }`,
		`t = { a = undefined }`,
		`t = { a = 'open }`,
		`t = { @ }`,
		`{ 1, , 2 }`,
		`nil`,
	} {
		d, err := Parse([]byte(text), Options{})
		if !errors.Is(err, ErrMalformedBlueprint) {
			t.Errorf("%q: expected ErrMalformedBlueprint, got %v", text, err)
		}
		if d != nil {
			t.Errorf("%q: partial result returned", text)
		}
	}
}

func TestCommentStripping(t *testing.T) {
	text := []byte("t = {\n a = 1, # one\n b = 2, -- two\n}\n")
	for _, opts := range []Options{{}, {QuoteAwareComments: true}} {
		d, err := Parse(text, opts)
		if err != nil {
			t.Fatalf("%+v: %v", opts, err)
		}
		if d.Count("t") != 2 {
			t.Errorf("%+v: count %d", opts, d.Count("t"))
		}
	}

	quoted := []byte("t = { a = 'x -- y' }")
	if _, err := Parse(quoted, Options{}); !errors.Is(err, ErrMalformedBlueprint) {
		t.Errorf("legacy stripping should cut the quoted marker, got %v", err)
	}
	d, err := Parse(quoted, Options{QuoteAwareComments: true})
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := d.String("t.a"); s != "x -- y" {
		t.Errorf("t.a = %q", s)
	}
}

func TestUnitBlueprint(t *testing.T) {
	d, err := Parse([]byte(unitBlueprint), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if s, _ := d.String("Description"); s != "<LOC uel0106_desc>Light Assault Bot" {
		t.Errorf("Description = %q", s)
	}
	if n := d.Count("Display.Mesh.LODs"); n != 2 {
		t.Errorf("lods %d", n)
	}
	if s, _ := d.String("Display.Mesh.LODs.1.AlbedoName"); s != "uel0106_lod1_albedo.dds" {
		t.Errorf("albedo %q", s)
	}
	if v, _ := d.Get("Display.UniformScale"); v != 0.05 {
		t.Errorf("scale %#v", v)
	}
	if v, _ := d.Get("General.Capturable"); v != true {
		t.Errorf("capturable %#v", v)
	}
	if _, ok := d.Get("General.OrderOverrides"); ok {
		t.Errorf("nil kept")
	}
	if s, _ := d.String("Weapon.0.Audio.Fire.Cue"); s != "UEL0106_MachineGun" {
		t.Errorf("cue %q", s)
	}
	if v, _ := d.Get("Weapon.0.FiringTolerance"); v != float64(-2) {
		t.Errorf("tolerance %#v", v)
	}
	if _, ok := d.Get("Weapon.1"); ok {
		t.Errorf("out of range index resolved")
	}
}

func TestFlattenRenest(t *testing.T) {
	d, err := Parse([]byte(unitBlueprint), Options{})
	if err != nil {
		t.Fatal(err)
	}

	flat := d.Flatten()
	if flat["Display.Mesh.LODs.0.LODCutoff"] != int64(100) {
		t.Errorf("flat lod cutoff %#v", flat["Display.Mesh.LODs.0.LODCutoff"])
	}

	root, err := Renest(flat)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(root, d.Root) {
		t.Errorf("renest mismatch:\n%#v\n%#v", root, d.Root)
	}

	paths := d.Paths()
	for i := 1; i < len(paths); i++ {
		if paths[i-1] >= paths[i] {
			t.Fatalf("paths not sorted at %d", i)
		}
	}
}

func TestRenest(t *testing.T) {
	root, err := Renest(map[string]interface{}{
		"a.0":   int64(1),
		"a.1":   int64(2),
		"b.x.0": "s",
		"b.y":   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"a": []interface{}{int64(1), int64(2)},
		"b": map[string]interface{}{
			"x": []interface{}{"s"},
			"y": true,
		},
	}
	if !reflect.DeepEqual(root, want) {
		t.Errorf("got %#v", root)
	}

	for _, flat := range []map[string]interface{}{
		{"a.0": 1, "a.2": 2},
		{"a": 1, "a.b": 2},
	} {
		if _, err := Renest(flat); !errors.Is(err, ErrMalformedBlueprint) {
			t.Errorf("%v: expected ErrMalformedBlueprint, got %v", flat, err)
		}
	}
}
