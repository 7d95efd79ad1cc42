package gsystem

import "github.com/gemc-project/gemc-core/internal/gerr"

func badOpticalLengthError(material, property string, got, want int) error {
	return gerr.Newf(gerr.BadRow, "material %q property %q has %d entries, grid has %d", material, property, got, want).
		With("material", material).
		With("property", property)
}

func duplicateNameError(system, name, kind string) error {
	return gerr.Newf(gerr.DuplicateName, "duplicate %s %q in system %q", kind, name, system).
		With("system", system).
		With("name", name)
}

func storeNotFoundError(factory, path string) error {
	return gerr.Newf(gerr.StoreNotFound, "no %s store found at %q", factory, path).
		With("factory", factory).
		With("path", path)
}

func badRowError(store, detail string) error {
	return gerr.Newf(gerr.BadRow, "%s: %s", store, detail).With("store", store)
}
