package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kwv/meshalign/mesh"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile = flag.String("config", "", "Path to YAML configuration file (optional)")
	fixedFile  = flag.String("fixed", "", "Fixed (reference) mesh OBJ file")
	movingFile = flag.String("moving", "", "Moving mesh OBJ file to register")
	outputFile = flag.String("output", "", "Output OBJ file for the displaced mesh")
	renderFile = flag.String("render", "", "Output PNG snapshot of the registration")
	svgFile    = flag.String("svg", "", "Output SVG snapshot of the registration")
	parseOnly  = flag.Bool("parse-only", false, "Parse input meshes, print stats and exit")
)

func main() {
	flag.Parse()
	fmt.Printf("meshalign version: %s\n", Version)

	if *fixedFile == "" && *movingFile == "" {
		fmt.Println("Usage: meshalign -fixed fixed.obj -moving moving.obj [-output deformed.obj]")
		fmt.Println("Use --config to supply registration settings (YAML)")
		fmt.Println("Use --render/--svg to write registration snapshots")
		fmt.Println("Use --parse-only to inspect the input meshes")
		os.Exit(2)
	}

	app := NewApp()
	app.FixedFile = *fixedFile
	app.MovingFile = *movingFile
	app.OutputFile = *outputFile
	app.RenderFile = *renderFile
	app.SVGFile = *svgFile

	if *configFile != "" {
		cfg, err := mesh.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		app.Config = cfg
	}

	if *parseOnly {
		app.RunParseOnly()
		return
	}

	if *fixedFile == "" || *movingFile == "" {
		log.Fatal("Both -fixed and -moving are required for registration")
	}
	app.RunRegister()
}
