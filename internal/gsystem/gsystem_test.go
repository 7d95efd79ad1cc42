package gsystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseColorSixDigitsOpaque(t *testing.T) {
	c, err := ParseColor("ff0080")
	require.NoError(t, err)
	require.Equal(t, uint8(0xff), c.R)
	require.Equal(t, uint8(0x00), c.G)
	require.Equal(t, uint8(0x80), c.B)
	require.Equal(t, 1.0, c.Alpha)
}

func TestParseColorSevenDigitsTransparency(t *testing.T) {
	c, err := ParseColor("ff00803")
	require.NoError(t, err)
	require.InDelta(t, 1.0-3.0/5.0, c.Alpha, 1e-9)
}

func TestParseColorRejectsBadTransparencyIndex(t *testing.T) {
	_, err := ParseColor("ff00806")
	require.Error(t, err)
}

func TestParseRotationDefaultOrder(t *testing.T) {
	r, err := parseRotation("0,0,90,deg")
	require.NoError(t, err)
	require.Equal(t, OrderXYZ, r.Order)
	require.InDelta(t, 3.14159265/2, r.Angles.Z, 1e-6)
}

func TestParseRotationOrderedPermutation(t *testing.T) {
	r, err := parseRotation("ordered:zyx,10,20,30,deg")
	require.NoError(t, err)
	require.Equal(t, OrderZYX, r.Order)
}

func TestParseRotationRejectsUnknownOrder(t *testing.T) {
	_, err := parseRotation("ordered:xyx,1,2,3,deg")
	require.Error(t, err)
}

func TestAsciiFactoryLoadsGeometryAndMaterials(t *testing.T) {
	dir := t.TempDir()
	geom := "root | akasha | G4Box | 15*m,15*m,15*m | G4_AIR | 0,0,0,mm | 0,0,0,deg | ffffff | true | solid |  | \n" +
		"target | root | G4Tubs | 1*cm,2*cm,5*cm | target_mat | 0,0,10,mm | 0,0,0,deg | ff0000 | true | solid | targetDigi | sector:1,paddle:2\n"
	mats := "G4_AIR | 1.29e-3 | N:0.7:fraction,O:0.3:fraction | \ntarget_mat | 8.9 | Cu:1:atom | \n"

	require.NoError(t, os.WriteFile(filepath.Join(dir, "exp__geometry_default.txt"), []byte(geom), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "exp__material_default.txt"), []byte(mats), 0o644))

	req := Request{Experiment: "exp", System: "exp", Variation: "default", Factory: "ascii", SearchPaths: []string{dir}}
	sys, err := Load(req, testLogger())
	require.NoError(t, err)

	require.Len(t, sys.Volumes(), 2)
	require.Len(t, sys.Materials(), 2)

	target, ok := sys.Volume("target")
	require.True(t, ok)
	require.Equal(t, "root", target.MotherName)
	require.Equal(t, "targetDigi", target.DigitizationName)
	require.Equal(t, []IdentityEntry{{Name: "sector", Value: 1}, {Name: "paddle", Value: 2}}, target.IdentityVector)
}

func TestAsciiFactoryMissingGeometryIsFatal(t *testing.T) {
	dir := t.TempDir()
	req := Request{Experiment: "exp", System: "missing", Variation: "default", Factory: "ascii", SearchPaths: []string{dir}}
	_, err := Load(req, testLogger())
	require.Error(t, err)
}

func TestAsciiFactoryBadRowCount(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "exp__geometry_default.txt"), []byte("onlyonecolumn\n"), 0o644))
	req := Request{Experiment: "exp", System: "exp", Variation: "default", Factory: "ascii", SearchPaths: []string{dir}}
	_, err := Load(req, testLogger())
	require.Error(t, err)
}

func TestUnionDetectsDuplicateFullyQualifiedVolume(t *testing.T) {
	a := NewSystem("sysA", "exp", "default", 1)
	require.NoError(t, a.AddVolume(&Volume{Name: "root", MotherName: RootMotherName}))
	b := NewSystem("sysA", "exp", "default", 1) // same system name -> same FQ key
	require.NoError(t, b.AddVolume(&Volume{Name: "root", MotherName: RootMotherName}))

	_, err := NewUnion([]*System{a, b})
	require.Error(t, err)
}

func TestMaterialOpticalVectorLengthInvariant(t *testing.T) {
	sys := NewSystem("sys", "exp", "default", 1)
	m := &Material{
		Name:             "scint",
		Density:          1.03,
		PhotonEnergyGrid: []float64{2.0, 2.5, 3.0},
		OpticalProps: []OpticalProperty{
			{Name: "RINDEX", Values: []float64{1.5, 1.5}}, // wrong length
		},
	}
	err := sys.AddMaterial(m)
	require.Error(t, err)
}
