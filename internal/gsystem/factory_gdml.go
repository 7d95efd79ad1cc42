package gsystem

import (
	"encoding/xml"
	"os"
)

// gdmlLoader reads filesystem XML files (spec.md §4.1). GDML parsing
// itself is named out of scope (spec.md §1: "the CAD/GDML parsers" are
// external collaborators); this factory only needs enough of the format
// to enumerate physical volumes and synthesize a default Volume per one
// (mother=root, material=air default, identity placement), exactly as the
// CAD factory does for meshes. encoding/xml is stdlib: no example repo in
// the corpus parses XML, and GDML's actual solid/material semantics are
// out of scope, so there is no ecosystem XML-schema library for this core
// to reach for (see DESIGN.md).
type gdmlLoader struct{}

func init() {
	register("GDML", gdmlLoader{})
}

type gdmlDocument struct {
	XMLName  xml.Name `xml:"gdml"`
	Physvols []struct {
		Name string `xml:"name,attr"`
	} `xml:"structure>volume>physvol"`
}

func (gdmlLoader) LoadMaterials(req Request, sys *System) error {
	return nil
}

func (gdmlLoader) LoadGeometry(req Request, sys *System) error {
	data, err := os.ReadFile(req.StorePath)
	if err != nil {
		return storeNotFoundError("GDML", req.StorePath)
	}
	var doc gdmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return badRowError("GDML", err.Error())
	}
	if len(doc.Physvols) == 0 {
		return storeNotFoundError("GDML", req.StorePath)
	}
	for _, pv := range doc.Physvols {
		v := synthesizeMeshVolume(pv.Name, req.StorePath)
		v.Shape.Type = "GDML"
		if err := sys.AddVolume(v); err != nil {
			return err
		}
	}
	return nil
}
