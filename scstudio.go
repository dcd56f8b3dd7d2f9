package main

import (
	"flag"
	"log"

	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/vfs"
	"github.com/mogaika/scstudio/web"

	_ "github.com/mogaika/scstudio/pack/bp"
	_ "github.com/mogaika/scstudio/pack/sca"
	_ "github.com/mogaika/scstudio/pack/scm"
	_ "github.com/mogaika/scstudio/pack/txt"
)

func main() {
	var addr, dir, settingsPath, dialect, encoding string
	var quoteAwareComments bool
	flag.StringVar(&addr, "i", "", "Address of server (default :8000)")
	flag.StringVar(&dir, "dir", "", "Path to unit directory")
	flag.StringVar(&settingsPath, "settings", "", "Path to yaml settings file")
	flag.StringVar(&dialect, "dialect", "", "File layout dialect: default, stride16")
	flag.StringVar(&encoding, "encoding", "", "Name table text encoding")
	flag.BoolVar(&quoteAwareComments, "quotecomments", false, "Keep '#' and '--' inside blueprint strings")
	flag.Parse()

	settings := config.DefaultSettings()
	if settingsPath != "" {
		var err error
		if settings, err = config.LoadSettings(settingsPath); err != nil {
			log.Fatal(err)
		}
	}

	if addr != "" {
		settings.Addr = addr
	}
	if dir != "" {
		settings.Dir = dir
	}
	if dialect != "" {
		settings.Dialect = dialect
	}
	if encoding != "" {
		settings.Encoding = encoding
	}
	if quoteAwareComments {
		settings.Blueprint.QuoteAwareComments = true
	}

	if settings.Dir == "" {
		flag.PrintDefaults()
		return
	}

	if err := settings.Apply(); err != nil {
		log.Fatal(err)
	}
	log.Printf("[scstudio] dialect %s, encoding %s", config.GetDialect().Name, config.GetEncoding())

	if err := web.StartServer(settings.Addr, vfs.NewDirectoryDriver(settings.Dir)); err != nil {
		log.Fatal(err)
	}
}
