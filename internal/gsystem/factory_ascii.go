package gsystem

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// asciiLoader reads pipe-delimited text files, one row per volume or
// material, following the original gsystem text factory's naming
// convention: "<system><__geometry|__material>_<variation>.txt", searched
// across Request.SearchPaths (grounded on
// original_source/gsystem/gsystemFactories/text/systemTextFactory.cc,
// which builds the filename from system+SYSTEMTYPE+variation and falls
// back through a list of search directories).
type asciiLoader struct{}

func init() {
	register("ascii", asciiLoader{})
}

const (
	geometrySuffix = "__geometry"
	materialSuffix = "__material"
)

func (asciiLoader) openFirst(req Request, suffix string) (*os.File, string, error) {
	name := fmt.Sprintf("%s%s_%s.txt", req.System, suffix, req.Variation)
	tried := []string{name}
	if f, err := os.Open(name); err == nil {
		return f, name, nil
	}
	for _, dir := range req.SearchPaths {
		path := dir + "/" + name
		tried = append(tried, path)
		if f, err := os.Open(path); err == nil {
			return f, path, nil
		}
	}
	return nil, "", storeNotFoundError("ascii", strings.Join(tried, ", "))
}

// LoadMaterials reads "<system>__material_<variation>.txt". A missing
// materials file is not fatal (spec.md §4.1): the transport engine may
// supply materials natively.
func (a asciiLoader) LoadMaterials(req Request, sys *System) error {
	f, _, err := a.openFirst(req, materialSuffix)
	if err != nil {
		return nil //nolint:nilerr // absent materials table is not fatal
	}
	defer f.Close()

	return scanRows(f, func(lineNo int, cols []string) error {
		m, err := parseMaterialRow(cols)
		if err != nil {
			return badRowError("ascii", fmt.Sprintf("material file line %d: %v", lineNo, err))
		}
		return sys.AddMaterial(m)
	})
}

// LoadGeometry reads "<system>__geometry_<variation>.txt". A missing
// geometry file IS fatal.
func (a asciiLoader) LoadGeometry(req Request, sys *System) error {
	f, _, err := a.openFirst(req, geometrySuffix)
	if err != nil {
		return err
	}
	defer f.Close()

	return scanRows(f, func(lineNo int, cols []string) error {
		v, err := parseVolumeRow(cols)
		if err != nil {
			return badRowError("ascii", fmt.Sprintf("geometry file line %d: %v", lineNo, err))
		}
		return sys.AddVolume(v)
	})
}

// scanRows reads pipe-delimited, '#'-comment-stripped, non-blank lines.
func scanRows(f *os.File, handle func(lineNo int, cols []string) error) error {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cols := strings.Split(line, "|")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if err := handle(lineNo, cols); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Geometry row columns, fixed count (spec.md §4.1 "malformed row (wrong
// parameter count)" is a fatal gerr.BadRow):
//
//	name | mother | shapeType | parameters(csv) | material | pos(x,y,z,unit) |
//	rot(x,y,z,unit) | color | visible | style | digitization | identityVector
const geometryColumnCount = 12

func parseVolumeRow(cols []string) (*Volume, error) {
	if len(cols) != geometryColumnCount {
		return nil, fmt.Errorf("expected %d columns, got %d", geometryColumnCount, len(cols))
	}
	pos, err := parseVectorWithUnit(cols[5])
	if err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	rot, err := parseRotation(cols[6])
	if err != nil {
		return nil, fmt.Errorf("rotation: %w", err)
	}
	color, err := ParseColor(cols[7])
	if err != nil {
		return nil, err
	}
	visible, err := strconv.ParseBool(cols[8])
	if err != nil {
		return nil, fmt.Errorf("visible flag: %w", err)
	}
	identity, err := parseIdentityVector(cols[11])
	if err != nil {
		return nil, err
	}

	v := &Volume{
		Name:       cols[0],
		MotherName: cols[1],
		Shape: ShapeRef{
			Type:       cols[2],
			Parameters: parseParams(cols[3]),
		},
		Material:         cols[4],
		Position:         pos,
		Rotation:         rot,
		Color:            color,
		Visible:          visible,
		Style:            VisStyle(cols[9]),
		DigitizationName: cols[10],
		IdentityVector:   identity,
		Existence:        true,
	}
	return v, nil
}

// Material row columns:
//
//	name | density | components(csv "name:amount:kind") | energyGrid(csv)
const materialColumnCount = 4

func parseMaterialRow(cols []string) (*Material, error) {
	if len(cols) != materialColumnCount {
		return nil, fmt.Errorf("expected %d columns, got %d", materialColumnCount, len(cols))
	}
	density, err := strconv.ParseFloat(cols[1], 64)
	if err != nil {
		return nil, fmt.Errorf("density: %w", err)
	}
	m := &Material{Name: cols[0], Density: density}
	if cols[2] != "" {
		for _, entry := range strings.Split(cols[2], ",") {
			parts := strings.Split(entry, ":")
			if len(parts) != 3 {
				return nil, fmt.Errorf("component %q: expected name:amount:kind", entry)
			}
			amount, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return nil, fmt.Errorf("component %q amount: %w", entry, err)
			}
			kind := ByAtomCount
			if parts[2] == "fraction" {
				kind = ByMassFraction
			}
			m.Components = append(m.Components, Component{Name: parts[0], Amount: amount, Kind: kind})
		}
	}
	if cols[3] != "" {
		for _, tok := range strings.Split(cols[3], ",") {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("energy grid entry %q: %w", tok, err)
			}
			m.PhotonEnergyGrid = append(m.PhotonEnergyGrid, v)
		}
	}
	return m, nil
}

func parseParams(s string) []Param {
	if s == "" {
		return nil
	}
	var out []Param
	for _, tok := range strings.Split(s, ",") {
		v, unit, _ := strings.Cut(tok, "*")
		val, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		out = append(out, Param{Value: val, Unit: strings.TrimSpace(unit)})
	}
	return out
}

func parseIdentityVector(s string) ([]IdentityEntry, error) {
	if s == "" {
		return nil, nil
	}
	var out []IdentityEntry
	for _, tok := range strings.Split(s, ",") {
		name, valStr, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, fmt.Errorf("identity entry %q: expected name:value", tok)
		}
		val, err := strconv.Atoi(strings.TrimSpace(valStr))
		if err != nil {
			return nil, fmt.Errorf("identity entry %q: %w", tok, err)
		}
		out = append(out, IdentityEntry{Name: strings.TrimSpace(name), Value: val})
	}
	return out, nil
}
