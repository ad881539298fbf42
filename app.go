package main

import (
	"fmt"
	"log"

	"github.com/kwv/meshalign/mesh"
)

// App encapsulates the application state and dependencies
type App struct {
	Config *mesh.Config

	// CLI Flags (effectively dependencies)
	FixedFile  string
	MovingFile string
	OutputFile string
	RenderFile string
	SVGFile    string
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	cfg := mesh.DefaultConfig()
	return &App{Config: &cfg}
}

// RunParseOnly parses the input meshes, prints their stats and exits
func (a *App) RunParseOnly() {
	for _, path := range []string{a.FixedFile, a.MovingFile} {
		if path == "" {
			continue
		}
		m, err := mesh.ParseMeshFile(path)
		if err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
		min, max := m.Bounds()
		centroid := m.Centroid()
		fmt.Printf("%s: %d vertices\n", m.Name, m.NumVertices())
		fmt.Printf("  bounds   (%.2f, %.2f, %.2f) .. (%.2f, %.2f, %.2f)\n",
			min.X, min.Y, min.Z, max.X, max.Y, max.Z)
		fmt.Printf("  centroid (%.2f, %.2f, %.2f)\n", centroid.X, centroid.Y, centroid.Z)
	}
}

// RunRegister registers the moving mesh onto the fixed mesh and writes the
// requested outputs.
func (a *App) RunRegister() {
	fixed := mesh.NewLazyMeshFile(a.FixedFile)
	moving := mesh.NewLazyMeshFile(a.MovingFile)

	result, err := mesh.RegisterMeshes(fixed, moving, *a.Config)
	if err != nil {
		log.Fatalf("Registration failed: %v", err)
	}

	fmt.Printf("Registered %s onto %s\n", moving.Name, fixed.Name)
	fmt.Printf("  cost       %.4f -> %.4f\n", result.InitialCost, result.FinalCost)
	fmt.Printf("  iterations %d (converged=%v)\n", result.Iterations, result.Converged)

	if a.OutputFile != "" {
		if err := mesh.WriteMeshFile(a.OutputFile, result.Displaced); err != nil {
			log.Fatalf("Error writing %s: %v", a.OutputFile, err)
		}
		fmt.Printf("Wrote displaced mesh to %s\n", a.OutputFile)
	}

	if a.RenderFile != "" || a.SVGFile != "" {
		a.renderSnapshot(fixed, moving, result)
	}
}

func (a *App) renderSnapshot(fixed, moving *mesh.Mesh, result *mesh.RegistrationResult) {
	r := mesh.NewSnapshotRenderer(fixed, moving)
	r.Displaced = result.Displaced
	r.Targets = result.Targets
	r.ApplyConfig(a.Config.Render)

	if a.RenderFile != "" {
		if err := r.SavePNG(a.RenderFile); err != nil {
			log.Fatalf("Error rendering %s: %v", a.RenderFile, err)
		}
		fmt.Printf("Wrote snapshot to %s\n", a.RenderFile)
	}
	if a.SVGFile != "" {
		if err := r.SaveSVG(a.SVGFile); err != nil {
			log.Fatalf("Error rendering %s: %v", a.SVGFile, err)
		}
		fmt.Printf("Wrote snapshot to %s\n", a.SVGFile)
	}
}
