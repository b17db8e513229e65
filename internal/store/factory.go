package store

import (
	"strings"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
)

// SupportedDrivers lists all available catalog drivers.
var SupportedDrivers = []string{"json", "bbolt"}

// NewCatalog creates a Catalog for the specified driver.
// Supported drivers:
//   - "json": single JSON document, atomically replaced on mutation
//     (the default vault layout)
//   - "bbolt": BoltDB file, useful for very large catalogs
func NewCatalog(driver, path string) (Catalog, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))

	if path == "" {
		return nil, verrors.New(verrors.EPersistenceFailure, "catalog path is required")
	}

	switch driver {
	case "json", "":
		return NewJSONCatalog(path)
	case "bbolt":
		return NewBoltCatalog(path)
	default:
		return nil, verrors.Newf(verrors.EConfigInvalid,
			"unsupported catalog driver: %s (supported: %v)", driver, SupportedDrivers)
	}
}
