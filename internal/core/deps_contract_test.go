package core

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestCoreImportBoundaries ensures the catalog engine stays decoupled from
// concrete collaborator drivers: internal/core may depend on pkg/domain and
// third-party libraries only. Locator, archive, and mirror backends plug in
// through the domain contracts, never by direct import.
func TestCoreImportBoundaries(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, "catalogcore/internal/core")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	forbidden := []string{
		"catalogcore/internal/locate",
		"catalogcore/internal/archive",
		"catalogcore/internal/persistence",
	}
	for _, p := range pkgs {
		for imp := range p.Imports {
			for _, f := range forbidden {
				if imp == f || strings.HasPrefix(imp, f+"/") {
					t.Fatalf("internal/core must not import %s", imp)
				}
			}
		}
	}
}
