package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/poku-e/a1scrap/internal/navinject"
)

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// injectTree rewrites root, or every HTML file below it, in place. It returns
// the number of pages seen and changed.
func injectTree(inj *navinject.Injector, root string) (seen, changed int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isHTML(path) {
			return nil
		}
		seen++
		ok, err := injectFile(inj, path)
		if err != nil {
			return err
		}
		if ok {
			changed++
		}
		return nil
	})
	return seen, changed, err
}

func injectFile(inj *navinject.Injector, path string) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	out, changed, err := inj.InjectHTML(src)
	if err != nil {
		return false, err
	}
	if !changed {
		logger.Debug("unchanged", zap.String("file", path))
		return false, nil
	}
	if err := writeAtomic(path, out); err != nil {
		return false, err
	}
	logger.Info("injected", zap.String("file", path))
	return true, nil
}

func writeAtomic(path string, b []byte) error {
	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, mode); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
