package gsystem

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultMeshMaterial is the material assigned to a mesh-imported volume
// when the factory synthesizes its Volume record, spec.md §4.1.
const DefaultMeshMaterial = "G4_AIR"

// cadMeshExtensions lists the mesh file extensions the CAD factory
// imports, one synthesized Volume per file.
var cadMeshExtensions = map[string]bool{
	".stl": true,
	".ply": true,
	".obj": true,
}

// cadLoader treats Request.StorePath as a filesystem directory of mesh
// files; it has no materials table of its own (spec.md §4.1: CAD/GDML
// synthesize a default Volume per imported mesh).
type cadLoader struct{}

func init() {
	register("CAD", cadLoader{})
}

func (cadLoader) LoadMaterials(req Request, sys *System) error {
	return nil
}

func (cadLoader) LoadGeometry(req Request, sys *System) error {
	entries, err := os.ReadDir(req.StorePath)
	if err != nil {
		return storeNotFoundError("CAD", req.StorePath)
	}
	found := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !cadMeshExtensions[ext] {
			continue
		}
		found = true
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		v := synthesizeMeshVolume(name, filepath.Join(req.StorePath, e.Name()))
		if err := sys.AddVolume(v); err != nil {
			return err
		}
	}
	if !found {
		return storeNotFoundError("CAD", req.StorePath)
	}
	return nil
}

// synthesizeMeshVolume builds the default Volume record for one imported
// mesh file: mother=root, material=air, identity placement (spec.md §4.1).
func synthesizeMeshVolume(name, meshPath string) *Volume {
	return &Volume{
		Name:       name,
		MotherName: RootMotherName,
		Shape: ShapeRef{
			Type:       "Mesh",
			Parameters: []Param{{Value: 0, Unit: meshPath}},
		},
		Material:  DefaultMeshMaterial,
		Color:     Color{R: 0xcc, G: 0xcc, B: 0xcc, Alpha: 1.0},
		Visible:   true,
		Style:     VisSolid,
		Existence: true,
	}
}
