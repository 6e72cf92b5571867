package filestore

import (
	"path"
	"strings"
)

// Match reports whether key matches pattern. A leading "**/" matches
// any number of path segments, including none, so "**/medpar_*.fts"
// matches both "medpar_2015.fts" and "2015/medpar_2015.fts". The rest
// of the pattern follows path.Match syntax.
func Match(pattern, key string) (bool, error) {
	rest, anyDepth := strings.CutPrefix(pattern, "**/")
	if !anyDepth {
		return path.Match(pattern, key)
	}

	if ok, err := path.Match(rest, key); ok || err != nil {
		return ok, err
	}
	for i := 0; i < len(key); i++ {
		if key[i] != '/' {
			continue
		}
		if ok, err := path.Match(rest, key[i+1:]); ok || err != nil {
			return ok, err
		}
	}
	return false, nil
}
