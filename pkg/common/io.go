package common

import (
	"errors"
	"io/fs"
	"os"
	"path"

	"github.com/bmatcuk/doublestar/v4"
)

// The extensions a config file can have, in the order they are tried.
var ConfigFileExtensions = []string{".yaml", ".yml", ".json", ".jsonc"}

func FileExists(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Searches the given file system for a config file with the given name (without extension).
// Returns the path of the first match according to the extension order or an empty string.
func SearchConfigFile(fsys fs.FS, name string) (string, error) {
	matches, err := doublestar.Glob(fsys, name+".{yaml,yml,json,jsonc}")
	if err != nil {
		return "", err
	}
	for _, ext := range ConfigFileExtensions {
		for _, match := range matches {
			if path.Ext(match) == ext {
				return match, nil
			}
		}
	}
	return "", nil
}
