package gsystem

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// sqliteLoader reads volume and material records from tables keyed by
// experiment/system/variation/run (spec.md §4.1), grounded on the
// teacher's *sql.DB embedding pattern (internal/db/db.go: `type DB struct
// { *sql.DB }`, query-then-scan-rows helpers).
type sqliteLoader struct{}

func init() {
	register("sqlite", sqliteLoader{})
}

// OpenSQLite opens (and migrates, see migrations.go) the database at path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("gsystem: opening sqlite store %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storeNotFoundError("sqlite", path)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (sqliteLoader) LoadMaterials(req Request, sys *System) error {
	db, err := OpenSQLite(req.StorePath)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name, density, components_csv, energy_grid_csv
		FROM materials WHERE experiment = ? AND system = ? AND variation = ? AND run_number = ?`,
		req.Experiment, req.System, req.Variation, req.RunNumber)
	if err != nil {
		return nil //nolint:nilerr // missing materials table is not fatal, spec.md §4.1
	}
	defer rows.Close()

	for rows.Next() {
		var name, componentsCSV, energyCSV string
		var density float64
		if err := rows.Scan(&name, &density, &componentsCSV, &energyCSV); err != nil {
			return badRowError("sqlite", err.Error())
		}
		m, err := parseMaterialRow([]string{name, fmt.Sprintf("%v", density), componentsCSV, energyCSV})
		if err != nil {
			return badRowError("sqlite", err.Error())
		}
		if err := sys.AddMaterial(m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (sqliteLoader) LoadGeometry(req Request, sys *System) error {
	db, err := OpenSQLite(req.StorePath)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name, mother, shape_type, parameters_csv, material,
		position, rotation, color, visible, style, digitization, identity_vector
		FROM volumes WHERE experiment = ? AND system = ? AND variation = ? AND run_number = ?`,
		req.Experiment, req.System, req.Variation, req.RunNumber)
	if err != nil {
		return storeNotFoundError("sqlite", req.System)
	}
	defer rows.Close()

	for rows.Next() {
		cols := make([]string, geometryColumnCount)
		var name, mother, shapeType, paramsCSV, material, position, rotation, color, style, digitization, identity string
		var visible string
		if err := rows.Scan(&name, &mother, &shapeType, &paramsCSV, &material,
			&position, &rotation, &color, &visible, &style, &digitization, &identity); err != nil {
			return badRowError("sqlite", err.Error())
		}
		cols[0], cols[1], cols[2], cols[3] = name, mother, shapeType, paramsCSV
		cols[4], cols[5], cols[6], cols[7] = material, position, rotation, color
		cols[8], cols[9], cols[10], cols[11] = visible, style, digitization, identity

		v, err := parseVolumeRow(cols)
		if err != nil {
			return badRowError("sqlite", err.Error())
		}
		if err := sys.AddVolume(v); err != nil {
			return err
		}
	}
	return rows.Err()
}
