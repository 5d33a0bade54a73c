package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const scriptExt = ".at"

// collectScripts resolves run arguments into a sorted, de-duplicated
// list of script files. Directories are walked recursively for *.at
// files; explicit file arguments must carry the script extension.
func collectScripts(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}

		if !st.IsDir() {
			if filepath.Ext(arg) != scriptExt {
				return nil, fmt.Errorf("%s: not an %s script", arg, scriptExt)
			}
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == scriptExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", arg, err)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no %s scripts found", scriptExt)
	}
	sort.Strings(out)
	return out, nil
}
