package unit

import (
	"fmt"
	"strings"

	"github.com/mogaika/scstudio/blueprint"
	"github.com/mogaika/scstudio/utils"
)

const DefaultShader = "Unit"

type Material struct {
	Shader    string
	Albedo    string
	SpecTeam  string
	TeamColor utils.ColorFloat
}

func TeamColor(shader string) utils.ColorFloat {
	switch shader {
	case "Insect":
		return utils.ColorFloat{1, 0, 0, 1}
	case "Aeon":
		return utils.ColorFloat{0, 1, 0, 1}
	case "Seraphim":
		return utils.ColorFloat{1, 1, 0, 1}
	}
	return utils.ColorFloat{0, 0, 1, 1}
}

// ResolveMaterial builds texture names from the mesh stem with its last
// '_' part dropped, then applies the blueprint overrides of the lod.
func ResolveMaterial(bp *blueprint.Document, meshStem string, lod int) Material {
	texId := meshStem
	if i := strings.LastIndexByte(meshStem, '_'); i >= 0 {
		texId = meshStem[:i]
	}

	mat := Material{
		Shader:   DefaultShader,
		Albedo:   texId + "_albedo.dds",
		SpecTeam: texId + "_specteam.dds",
	}

	if bp != nil {
		prefix := fmt.Sprintf("Display.Mesh.LODs.%d.", lod)
		if s, ok := bp.String(prefix + "ShaderName"); ok {
			mat.Shader = s
		}
		if s, ok := bp.String(prefix + "AlbedoName"); ok {
			mat.Albedo = s
		}
		if s, ok := bp.String(prefix + "SpecTeamName"); ok {
			mat.SpecTeam = s
		}
	}

	mat.TeamColor = TeamColor(mat.Shader)
	return mat
}
