package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Hi-chem22/AFRAN-2025/internal/app"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/speakermerge"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
)

func main() {
	var mappingPath string
	var detect bool
	var dryRun bool
	flag.StringVar(&mappingPath, "mapping", "", "YAML file of duplicate: canonical speaker ids")
	flag.BoolVar(&detect, "detect", false, "derive the mapping from speakers sharing a name")
	flag.BoolVar(&dryRun, "dry-run", false, "print the plan without writing")
	flag.Parse()

	if (mappingPath == "") == !detect {
		fmt.Println("exactly one of -mapping or -detect is required")
		os.Exit(2)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()

	var mapping speakermerge.Mapping
	if detect {
		speakers, err := application.Repos.Speaker.List(dbctx.New(ctx))
		if err != nil {
			fmt.Printf("load speakers: %v\n", err)
			os.Exit(1)
		}
		mapping = speakermerge.Detect(speakers)
	} else {
		f, err := os.Open(mappingPath)
		if err != nil {
			fmt.Printf("open mapping: %v\n", err)
			os.Exit(1)
		}
		mapping, err = speakermerge.ReadMapping(f)
		_ = f.Close()
		if err != nil {
			fmt.Printf("read mapping: %v\n", err)
			os.Exit(1)
		}
	}

	if len(mapping) == 0 {
		fmt.Println("no duplicate speakers")
		return
	}
	fmt.Printf("mapping (%d duplicates):\n", len(mapping))
	if err := speakermerge.WriteMapping(os.Stdout, mapping); err != nil {
		fmt.Printf("print mapping: %v\n", err)
	}

	merger := speakermerge.NewMerger(application.DB, application.Log)
	run := merger.Apply
	if dryRun {
		run = merger.Plan
	}
	report, err := run(ctx, mapping)
	if err != nil {
		fmt.Printf("merge failed: %v\n", err)
		os.Exit(1)
	}
	if !dryRun {
		application.Services.Sessions.Invalidate(ctx)
	}
	out, _ := yaml.Marshal(report)
	fmt.Print(string(out))
}
