package npm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ResolveModule returns the entry file of a package installed under
// installDir/node_modules.
func ResolveModule(installDir, pkg string) (string, error) {
	pkgDir := filepath.Join(installDir, "node_modules", filepath.FromSlash(pkg))
	if info, err := os.Stat(pkgDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("cannot find module %q in %s", pkg, installDir)
	}
	return ResolvePath(pkgDir)
}

// ResolvePath finds the file that require.resolve would return for an
// absolute path: the path itself, the path with .js appended, or, for a
// directory, its package.json "main" entry (default index.js) tried the
// same way.
func ResolvePath(p string) (string, error) {
	if f, ok := resolveFile(p); ok {
		return f, nil
	}
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("cannot find module %q", p)
	}

	main := ""
	if data, err := os.ReadFile(filepath.Join(p, "package.json")); err == nil {
		var meta struct {
			Main string `json:"main"`
		}
		if err := json.Unmarshal(data, &meta); err == nil {
			main = meta.Main
		}
	}
	if main != "" {
		base := filepath.Join(p, filepath.FromSlash(main))
		if f, ok := resolveFile(base); ok {
			return f, nil
		}
		if f, ok := resolveFile(filepath.Join(base, "index.js")); ok {
			return f, nil
		}
	}
	if f, ok := resolveFile(filepath.Join(p, "index.js")); ok {
		return f, nil
	}
	return "", fmt.Errorf("cannot find module %q: no entry point", p)
}

func resolveFile(p string) (string, bool) {
	for _, c := range []string{p, p + ".js"} {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}
