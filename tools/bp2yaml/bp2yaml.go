package main

import (
	"flag"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mogaika/scstudio/blueprint"
)

func main() {
	var file, out string
	var quoteAwareComments, flat bool
	flag.StringVar(&file, "f", "", "Blueprint file")
	flag.StringVar(&out, "o", "", "Output yaml file (stdout when empty)")
	flag.BoolVar(&quoteAwareComments, "quotecomments", false, "Keep '#' and '--' inside strings")
	flag.BoolVar(&flat, "flat", false, "Emit dotted paths instead of the tree")
	flag.Parse()

	if file == "" {
		flag.PrintDefaults()
		return
	}

	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatal(err)
	}

	doc, err := blueprint.Parse(data, blueprint.Options{QuoteAwareComments: quoteAwareComments})
	if err != nil {
		log.Fatalf("%s: %v", file, err)
	}

	var v interface{} = doc
	if flat {
		v = doc.Flatten()
	}

	w := os.Stdout
	if out != "" {
		if w, err = os.Create(out); err != nil {
			log.Fatal(err)
		}
		defer w.Close()
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		log.Fatal(err)
	}
}
