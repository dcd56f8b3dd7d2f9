package unit

import (
	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/pack/sca"
	"github.com/mogaika/scstudio/pack/scm"
)

var ErrNoMatchingBones = errors.New("animation shares no bone with model")

type Track struct {
	// Index into scm.Model.Bones
	Bone int
	// Index into each sca.Frame.Bones
	Channel int
	Name    string
}

type Pairing struct {
	Tracks []Track
	// Animation bones the model does not have
	Unmatched []string
}

// PairAnimation matches animation channels to model bones by name. The
// animation links are ignored, hierarchy comes from the model.
func PairAnimation(model *scm.Model, anim *sca.Animation) (*Pairing, error) {
	byName := make(map[string]int, len(model.Bones))
	for i, b := range model.Bones {
		if _, dup := byName[b.Name]; !dup {
			byName[b.Name] = i
		}
	}

	p := &Pairing{Tracks: make([]Track, 0, len(anim.BoneNames))}
	for ch, name := range anim.BoneNames {
		if bone, ok := byName[name]; ok {
			p.Tracks = append(p.Tracks, Track{Bone: bone, Channel: ch, Name: name})
		} else {
			p.Unmatched = append(p.Unmatched, name)
		}
	}

	if len(p.Tracks) == 0 && len(anim.BoneNames) != 0 {
		return p, errors.Wrapf(ErrNoMatchingBones, "%d animation bones", len(anim.BoneNames))
	}
	return p, nil
}
