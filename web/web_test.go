package web

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mogaika/scstudio/config"
	_ "github.com/mogaika/scstudio/pack/bp"
	"github.com/mogaika/scstudio/pack/sca"
	"github.com/mogaika/scstudio/pack/scm"
	"github.com/mogaika/scstudio/vfs"
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	m := &scm.Model{
		Bones: []scm.Bone{
			{BoneRecord: scm.BoneRecord{ParentIndex: -1, Rotation: [4]float32{1, 0, 0, 0}}, Name: "Root"},
		},
		Vertices: make([]scm.Vertex, 3),
		Faces:    []uint16{0, 1, 2},
	}
	a := &sca.Animation{
		BoneNames: []string{"Root"},
		Frames: []sca.Frame{
			{Bones: []sca.BoneTransform{sca.IdentityTransform}},
			{FrameHeader: sca.FrameHeader{Time: sca.FrameTime(1)}, Bones: []sca.BoneTransform{sca.IdentityTransform}},
		},
	}
	modelData, err := m.Marshal(config.DialectDefault)
	if err != nil {
		t.Fatal(err)
	}
	animData, err := a.Marshal(config.DialectDefault)
	if err != nil {
		t.Fatal(err)
	}

	for name, data := range map[string][]byte{
		"xsl0101_lod0.scm":  modelData,
		"xsl0101_aidle.sca": animData,
		"xsl0101_unit.bp":   []byte("UnitBlueprint { Display = { AnimationIdle = '/units/xsl0101/xsl0101_aidle.sca' } }"),
		"notes.dat":        []byte("notes"),
	} {
		if err := ioutil.WriteFile(filepath.Join(root, name), data, 0666); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func get(t *testing.T, srv *httptest.Server, path string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, body
}

func TestJsonRoutes(t *testing.T) {
	srv := httptest.NewServer(NewRouter(vfs.NewDirectoryDriver(fixtureDir(t))))
	defer srv.Close()

	code, body := get(t, srv, "/json/dir")
	var entries []FileEntry
	if err := json.Unmarshal(body, &entries); code != http.StatusOK || err != nil {
		t.Fatalf("dir %d %v %s", code, err, body)
	}
	if len(entries) != 4 {
		t.Errorf("entries %+v", entries)
	}
	for _, e := range entries {
		if e.Supported == (e.Name == "notes.dat") {
			t.Errorf("entry %+v", e)
		}
	}

	code, body = get(t, srv, "/json/file/xsl0101_unit.bp")
	var bp map[string]interface{}
	if err := json.Unmarshal(body, &bp); code != http.StatusOK || err != nil {
		t.Fatalf("bp %d %v %s", code, err, body)
	}
	if _, ok := bp["Display"]; !ok {
		t.Errorf("bp %v", bp)
	}

	code, body = get(t, srv, "/json/unit/xsl0101_lod0.scm")
	var u UnitSummary
	if err := json.Unmarshal(body, &u); code != http.StatusOK || err != nil {
		t.Fatalf("unit %d %v %s", code, err, body)
	}
	if u.Id != "xsl0101" || len(u.LODs) != 1 || u.LODs[0].Triangles != 1 || len(u.Clips) != 1 || u.Clips[0].Frames != 2 {
		t.Errorf("unit %+v", u)
	}

	if code, _ := get(t, srv, "/json/file/missing.scm"); code != http.StatusNotFound {
		t.Errorf("missing file code %d", code)
	}
	if code, _ := get(t, srv, "/json/file/notes.dat"); code != http.StatusInternalServerError {
		t.Errorf("unsupported file code %d", code)
	}
}

func TestActions(t *testing.T) {
	srv := httptest.NewServer(NewRouter(vfs.NewDirectoryDriver(fixtureDir(t))))
	defer srv.Close()

	code, body := get(t, srv, "/action/xsl0101_lod0.scm/gltf")
	if code != http.StatusOK || !bytes.HasPrefix(body, []byte("glTF")) {
		t.Errorf("gltf %d, %d bytes", code, len(body))
	}

	code, body = get(t, srv, "/action/xsl0101_lod0.scm/obj")
	if code != http.StatusOK || !strings.Contains(string(body), "f 1/1/1 2/2/2 3/3/3") {
		t.Errorf("obj %d %s", code, body)
	}

	code, body = get(t, srv, "/action/xsl0101_unit.bp/yaml")
	if code != http.StatusOK || !strings.Contains(string(body), "AnimationIdle: /units/xsl0101/xsl0101_aidle.sca") {
		t.Errorf("yaml %d %s", code, body)
	}

	code, body = get(t, srv, "/action/xsl0101_aidle.sca/repack?dialect=stride16")
	if code != http.StatusOK {
		t.Fatalf("repack %d %s", code, body)
	}
	a, err := sca.Decode(io.NewSectionReader(bytes.NewReader(body), 0, int64(len(body))), config.DialectStride16)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Frames) != 2 || a.BoneNames[0] != "Root" {
		t.Errorf("repacked %+v", a)
	}

	if code, _ := get(t, srv, "/action/xsl0101_unit.bp/repack"); code == http.StatusOK {
		t.Errorf("blueprint repacked")
	}
	if code, _ := get(t, srv, "/action/xsl0101_lod0.scm/unknown"); code == http.StatusOK {
		t.Errorf("unknown action accepted")
	}
}

func TestDumpAndUpload(t *testing.T) {
	root := fixtureDir(t)
	srv := httptest.NewServer(NewRouter(vfs.NewDirectoryDriver(root)))
	defer srv.Close()

	if code, body := get(t, srv, "/dump/notes.dat"); code != http.StatusOK || string(body) != "notes" {
		t.Errorf("dump %d %q", code, body)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("data", "notes.dat")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("updated notes"))
	mw.Close()

	resp, err := http.Post(srv.URL+"/upload/notes.dat", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload code %d", resp.StatusCode)
	}

	data, err := os.ReadFile(filepath.Join(root, "notes.dat"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "updated notes" {
		t.Errorf("uploaded %q", data)
	}
}
