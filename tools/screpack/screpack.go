package main

import (
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/pack/sca"
	"github.com/mogaika/scstudio/pack/scm"
)

type marshaler interface {
	Marshal(d config.Dialect) ([]byte, error)
}

func main() {
	var file, out, from, to string
	flag.StringVar(&file, "f", "", "Model or animation to re-encode")
	flag.StringVar(&out, "o", "", "Output file")
	flag.StringVar(&from, "from", config.DialectDefault.Name, "Source dialect")
	flag.StringVar(&to, "dialect", config.DialectStride16.Name, "Target dialect")
	flag.Parse()

	if file == "" || out == "" {
		flag.PrintDefaults()
		return
	}

	src, err := config.DialectByName(from)
	if err != nil {
		log.Fatal(err)
	}
	dst, err := config.DialectByName(to)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Open(file)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		log.Fatal(err)
	}
	sr := io.NewSectionReader(f, 0, stat.Size())

	var inst marshaler
	switch strings.ToLower(filepath.Ext(file)) {
	case ".scm":
		inst, err = scm.Decode(sr, src)
	case ".sca":
		inst, err = sca.Decode(sr, src)
	default:
		log.Fatalf("Unsupported file %q", file)
	}
	if err != nil {
		log.Fatalf("%s: %v", file, err)
	}

	data, err := inst.Marshal(dst)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(out, data, 0666); err != nil {
		log.Fatal(err)
	}
	log.Printf("[screpack] %s (%s) -> %s (%s), %d bytes", file, src.Name, out, dst.Name, len(data))
}
