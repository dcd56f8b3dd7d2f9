package unit

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/blueprint"
	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/pack/sca"
	"github.com/mogaika/scstudio/pack/scm"
	"github.com/mogaika/scstudio/status"
	"github.com/mogaika/scstudio/vfs"
)

var animationKeys = map[string]bool{
	"Animation":        true,
	"AnimationIdle":    true,
	"AnimationLand":    true,
	"AnimationOpen":    true,
	"AnimationTakeoff": true,
	"AnimationWalk":    true,
}

type Options struct {
	Dialect    config.Dialect
	Blueprint  blueprint.Options
	LODs       bool
	Animations bool
}

func DefaultOptions() Options {
	return Options{
		Dialect: config.GetDialect(),
		Blueprint: blueprint.Options{
			QuoteAwareComments: config.GetBlueprintSettings().QuoteAwareComments,
		},
		LODs:       true,
		Animations: true,
	}
}

type LOD struct {
	Index    int
	FileName string
	Model    *scm.Model
	Material Material
}

type Clip struct {
	// Blueprint path the clip was referenced from
	Key       string
	FileName  string
	Animation *sca.Animation
}

type Unit struct {
	Id        string
	Blueprint *blueprint.Document
	LODs      []*LOD
	Clips     []*Clip
}

func (u *Unit) Model() *scm.Model {
	return u.LODs[0].Model
}

// Id returns the unit id for a model file: 'uel0106_lod0.scm' gives
// 'uel0106', other names keep their whole stem.
func Id(fileName string) string {
	s := stem(fileName)
	if strings.Contains(strings.ToLower(s), "lod0") {
		if i := strings.IndexByte(s, '_'); i >= 0 {
			return s[:i]
		}
	}
	return s
}

func stem(fileName string) string {
	base := path.Base(fileName)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

func BlueprintName(fileName string) string {
	s := stem(fileName)
	if i := strings.IndexByte(s, '_'); i >= 0 {
		s = s[:i]
	}
	return s + "_unit.bp"
}

func LODName(id string, lod int) string {
	return fmt.Sprintf("%s_lod%d.scm", id, lod)
}

func sectionOf(data []byte) *io.SectionReader {
	return io.NewSectionReader(bytes.NewReader(data), 0, int64(len(data)))
}

func loadModel(dir vfs.Directory, fileName string, d config.Dialect) (*scm.Model, error) {
	data, err := vfs.ReadFile(dir, fileName)
	if err != nil {
		return nil, err
	}
	m, err := scm.Decode(sectionOf(data), d)
	if err != nil {
		return nil, errors.Wrapf(err, "Decoding model '%s'", fileName)
	}
	return m, nil
}

// Load resolves the model, its blueprint, LOD meshes and animation clips.
// Only the primary model is required, other files are skipped when absent.
func Load(dir vfs.Directory, fileName string, opts Options) (*Unit, error) {
	model, err := loadModel(dir, fileName, opts.Dialect)
	if err != nil {
		return nil, errors.Wrapf(err, "[unit] Primary model")
	}

	u := &Unit{Id: Id(fileName)}

	bpName := BlueprintName(fileName)
	if data, err := vfs.ReadFile(dir, bpName); err == nil {
		if u.Blueprint, err = blueprint.Parse(data, opts.Blueprint); err != nil {
			return nil, errors.Wrapf(err, "[unit] Blueprint '%s'", bpName)
		}
	} else if errors.Is(err, vfs.ErrFileNotFound) {
		log.Printf("[unit] %s: no blueprint '%s'", u.Id, bpName)
	} else {
		return nil, err
	}

	u.LODs = append(u.LODs, &LOD{
		FileName: fileName,
		Model:    model,
		Material: ResolveMaterial(u.Blueprint, stem(fileName), 0),
	})

	if opts.LODs && u.Blueprint != nil && strings.Contains(strings.ToLower(fileName), "lod0") {
		if err := u.loadLODs(dir, opts.Dialect); err != nil {
			return nil, err
		}
	}

	if opts.Animations && u.Blueprint != nil {
		if err := u.loadClips(dir, opts.Dialect); err != nil {
			return nil, err
		}
	}

	status.Info("Loaded unit %s: %d lods, %d animations", u.Id, len(u.LODs), len(u.Clips))
	return u, nil
}

func (u *Unit) loadLODs(dir vfs.Directory, d config.Dialect) error {
	count := u.Blueprint.Count("Display.Mesh.LODs")
	for i := 1; i < count; i++ {
		name := LODName(u.Id, i)
		m, err := loadModel(dir, name, d)
		if err != nil {
			if errors.Is(err, vfs.ErrFileNotFound) {
				log.Printf("[unit] %s: lod %d skipped: %v", u.Id, i, err)
				continue
			}
			return err
		}
		u.LODs = append(u.LODs, &LOD{
			Index:    i,
			FileName: name,
			Model:    m,
			Material: ResolveMaterial(u.Blueprint, stem(name), i),
		})
	}
	return nil
}

// ClipReferences lists blueprint entries naming animation files, in path
// order. The file is the base name of the referenced path.
func ClipReferences(bp *blueprint.Document) []*Clip {
	clips := make([]*Clip, 0)
	seen := make(map[string]bool)
	flat := bp.Flatten()
	for _, key := range bp.Paths() {
		if !animationKeys[key[strings.LastIndexByte(key, '.')+1:]] {
			continue
		}
		ref, ok := flat[key].(string)
		if !ok || ref == "" {
			continue
		}
		name := path.Base(strings.ReplaceAll(ref, "\\", "/"))
		if seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		clips = append(clips, &Clip{Key: key, FileName: name})
	}
	return clips
}

// loadClips decodes every referenced clip in parallel, each worker owns its
// reader.
func (u *Unit) loadClips(dir vfs.Directory, d config.Dialect) error {
	refs := ClipReferences(u.Blueprint)
	errs := make([]error, len(refs))

	var wg sync.WaitGroup
	for i, clip := range refs {
		wg.Add(1)
		go func(i int, clip *Clip) {
			defer wg.Done()
			data, err := vfs.ReadFile(dir, clip.FileName)
			if err != nil {
				errs[i] = err
				return
			}
			clip.Animation, errs[i] = sca.Decode(sectionOf(data), d)
		}(i, clip)
	}
	wg.Wait()

	for i, clip := range refs {
		if err := errs[i]; err != nil {
			if errors.Is(err, vfs.ErrFileNotFound) {
				log.Printf("[unit] %s: animation '%s' skipped", u.Id, clip.FileName)
				continue
			}
			return errors.Wrapf(err, "[unit] Animation '%s'", clip.FileName)
		}
		u.Clips = append(u.Clips, clip)
		status.Progress(float32(i+1)/float32(len(refs)), "%s: animation %s", u.Id, clip.FileName)
	}
	return nil
}
