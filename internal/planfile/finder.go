package planfile

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// findPlanFiles recursively collects every .hcl file under root, in
// lexical walk order so repeated loads see the same sequence.
func findPlanFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
