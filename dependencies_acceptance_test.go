package soundmint_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestModuleDependencies_Present(t *testing.T) {
	goMod, err := os.ReadFile("go.mod")
	if err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	for _, module := range []string{
		"github.com/gin-gonic/gin",
		"gorm.io/gorm",
		"github.com/knadh/koanf/v2",
		"github.com/simp-lee/logger",
		"github.com/simp-lee/jwt",
		"github.com/simp-lee/pagination",
		"github.com/hashicorp/golang-lru/v2",
		"github.com/prometheus/client_golang",
		"github.com/spf13/cobra",
		"golang.org/x/crypto",
	} {
		if !moduleRequired(string(goMod), module) {
			t.Errorf("expected module %q to be present in go.mod", module)
		}
	}
}

func TestModuleRequired_Fixture(t *testing.T) {
	fixture := `module example.com/demo

go 1.25.0

require (
	github.com/gin-gonic/gin v1.11.0
)`
	if !moduleRequired(fixture, "github.com/gin-gonic/gin") {
		t.Error("expected gin to be detected in fixture")
	}
	if moduleRequired(fixture, "gorm.io/gorm") {
		t.Error("expected gorm to be absent from fixture")
	}
}

// The domain package is shared by the server and the client, so it must not
// pull in the HTTP framework or a database driver.
func TestDomainPackage_NoTransportOrDriverImports(t *testing.T) {
	forbidden := []string{
		"github.com/gin-gonic/gin",
		"gorm.io/driver/",
		"github.com/glebarez/sqlite",
		"github.com/simp-lee/soundmint/internal/pkg",
	}
	for _, dir := range []string{"internal/domain", "internal/client"} {
		imports, err := packageImports(dir)
		if err != nil {
			t.Fatalf("scan %s: %v", dir, err)
		}
		for file, paths := range imports {
			for _, p := range paths {
				for _, f := range forbidden {
					if strings.HasPrefix(p, f) {
						t.Errorf("%s imports %q", file, p)
					}
				}
			}
		}
	}
}

func moduleRequired(goModContent, module string) bool {
	re := regexp.MustCompile(`(?m)^\s*(require\s+)?` + regexp.QuoteMeta(module) + `\s+v\S+`)
	return re.MatchString(goModContent)
}

// packageImports returns the import paths of every non-test file in dir.
func packageImports(dir string) (map[string][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	out := make(map[string][]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		path := filepath.Join(dir, name)
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range f.Imports {
			p, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				return nil, err
			}
			out[path] = append(out[path], p)
		}
	}
	return out, nil
}
