package web

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/blueprint"
	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/pack"
	"github.com/mogaika/scstudio/pack/sca"
	"github.com/mogaika/scstudio/pack/scm"
	"github.com/mogaika/scstudio/status"
	"github.com/mogaika/scstudio/unit"
	"github.com/mogaika/scstudio/vfs"
	"github.com/mogaika/scstudio/webutils"
)

type FileEntry struct {
	Name      string
	Size      int64
	Supported bool
}

func HandlerAjaxDir(w http.ResponseWriter, r *http.Request) {
	files, err := ServerDirectory.List()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	entries := make([]FileEntry, 0, len(files))
	for _, name := range files {
		e := FileEntry{Name: name, Supported: pack.HasHandler(name)}
		if f, err := vfs.DirectoryGetFile(ServerDirectory, name); err == nil {
			e.Size = f.Size()
		}
		entries = append(entries, e)
	}
	webutils.WriteJson(w, entries)
}

func HandlerAjaxFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	data, err := pack.GetInstanceHandler(ServerDirectory, file)
	if err != nil {
		log.Printf("[web] Error getting file: %v", err)
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, data)
	}
}

type LODSummary struct {
	Index     int
	FileName  string
	Bones     int
	Vertices  int
	Triangles int
	Material  unit.Material
}

type ClipSummary struct {
	Key       string
	FileName  string
	Frames    int
	Duration  float32
	Bones     int
	Unmatched []string
}

type UnitSummary struct {
	Id        string
	LODs      []LODSummary
	Clips     []ClipSummary
	Blueprint *blueprint.Document
}

func Summarize(u *unit.Unit) *UnitSummary {
	s := &UnitSummary{Id: u.Id, Blueprint: u.Blueprint}
	for _, lod := range u.LODs {
		s.LODs = append(s.LODs, LODSummary{
			Index:     lod.Index,
			FileName:  lod.FileName,
			Bones:     len(lod.Model.Bones),
			Vertices:  len(lod.Model.Vertices),
			Triangles: len(lod.Model.Faces) / 3,
			Material:  lod.Material,
		})
	}
	for _, clip := range u.Clips {
		cs := ClipSummary{
			Key:      clip.Key,
			FileName: clip.FileName,
			Frames:   len(clip.Animation.Frames),
			Duration: clip.Animation.Header.Duration,
			Bones:    len(clip.Animation.BoneNames),
		}
		if p, err := unit.PairAnimation(u.Model(), clip.Animation); err == nil {
			cs.Unmatched = p.Unmatched
		} else {
			cs.Unmatched = clip.Animation.BoneNames
		}
		s.Clips = append(s.Clips, cs)
	}
	return s
}

func HandlerAjaxUnit(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	u, err := unit.Load(ServerDirectory, file, unit.DefaultOptions())
	if err != nil {
		status.Error("Unit %s: %v", file, err)
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, Summarize(u))
}

func HandlerDumpFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	f, err := vfs.DirectoryGetFile(ServerDirectory, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	reader, err := vfs.OpenFileAndGetReader(f, true)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	defer f.Close()
	webutils.WriteFile(w, reader, file)
}

func stem(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

func repack(inst interface{}, d config.Dialect) ([]byte, error) {
	switch v := inst.(type) {
	case *scm.Model:
		return v.Marshal(d)
	case *sca.Animation:
		return v.Marshal(d)
	}
	return nil, errors.Errorf("Cannot repack %T", inst)
}

func HandlerActionFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	action := mux.Vars(r)["action"]

	if action == "gltf" {
		u, err := unit.Load(ServerDirectory, file, unit.DefaultOptions())
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		var buf bytes.Buffer
		if err := u.ExportGLTFBinary(&buf); err != nil {
			webutils.WriteError(w, errors.Wrapf(err, "Exporting %s", u.Id))
			return
		}
		webutils.WriteFile(w, &buf, u.Id+".glb")
		return
	}

	inst, err := pack.GetInstanceHandler(ServerDirectory, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	switch action {
	case "obj":
		m, ok := inst.(*scm.Model)
		if !ok {
			webutils.WriteError(w, errors.Errorf("File %s is not a model", file))
			return
		}
		var buf bytes.Buffer
		if err := m.ExportObj(&buf, stem(file), unit.ResolveMaterial(nil, stem(file), 0).Albedo); err != nil {
			webutils.WriteError(w, err)
			return
		}
		webutils.WriteFile(w, &buf, stem(file)+".obj")
	case "yaml":
		webutils.WriteYamlFile(w, inst, file)
	case "repack":
		d := config.GetDialect()
		if name := r.URL.Query().Get("dialect"); name != "" {
			if d, err = config.DialectByName(name); err != nil {
				webutils.WriteError(w, err)
				return
			}
		}
		data, err := repack(inst, d)
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		webutils.WriteFile(w, bytes.NewReader(data), file)
	default:
		webutils.WriteError(w, errors.Errorf("Unknown action %q", action))
	}
}

func HandlerUploadFile(w http.ResponseWriter, r *http.Request) {
	targetFile := mux.Vars(r)["file"]
	fileStream, _, err := r.FormFile("data")
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "File stream getting error"))
		return
	}
	defer fileStream.Close()

	fileSize, err := fileStream.Seek(0, os.SEEK_END)
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Cannot seek file"))
		return
	}
	fileStream.Seek(0, os.SEEK_SET)

	if err := vfs.WriteFile(ServerDirectory, targetFile, io.NewSectionReader(fileStream, 0, fileSize)); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Error when updating file"))
		return
	}
	status.Info("Uploaded %s (%d bytes)", targetFile, fileSize)
}
