package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/pack"
	"github.com/mogaika/scstudio/pack/scm"
	"github.com/mogaika/scstudio/utils"
	"github.com/mogaika/scstudio/vfs"

	_ "github.com/mogaika/scstudio/pack/bp"
	_ "github.com/mogaika/scstudio/pack/sca"
)

func main() {
	var file, dialect string
	var skeleton bool
	flag.StringVar(&file, "f", "", "File to dump (.scm, .sca, .bp)")
	flag.StringVar(&dialect, "dialect", config.DialectDefault.Name, "File layout dialect")
	flag.BoolVar(&skeleton, "skeleton", false, "Print model bone world positions and rotations")
	flag.Parse()

	if file == "" {
		flag.PrintDefaults()
		return
	}

	d, err := config.DialectByName(dialect)
	if err != nil {
		log.Fatal(err)
	}
	if err := config.SetDialect(d); err != nil {
		log.Fatal(err)
	}

	inst, err := pack.GetInstanceHandler(vfs.NewDirectoryDriver(filepath.Dir(file)), filepath.Base(file))
	if err != nil {
		log.Fatal(err)
	}

	utils.Dump(os.Stdout, inst)

	if m, ok := inst.(*scm.Model); ok {
		if err := m.Validate(); err != nil {
			log.Printf("[scdump] %v", err)
		}
		if skeleton {
			s, err := m.BuildSkeleton()
			if err != nil {
				log.Fatal(err)
			}
			for i, world := range s.World {
				log.Printf("%3d %-24s pos %v euler %v", i, s.Names[i], world.Col(3).Vec3(),
					utils.RadiansToDegreeV3(utils.QuatToEuler(m.Bones[i].Quat())))
			}
		}
	}
}
