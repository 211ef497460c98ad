// Package images builds the image manifest: the sorted list of root-relative
// URLs for every recognized image file in a site's public images directory.
//
// The manifest is recomputed from disk on every call. A directory that cannot
// be read yields an empty manifest rather than an error, so a broken images
// directory never fails a documentation build.
package images

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/errors"
)

// Extensions lists the recognized image suffixes, lower case.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".avif", ".svg"}

// IsImage reports whether name ends in a recognized extension, ignoring case.
func IsImage(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// DirFor returns the images directory that belongs to a site configuration file.
func DirFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), filepath.FromSlash(constants.ImagesDir))
}

// Scan lists the image file names in dir, sorted with the given options.
// Directories are skipped; symlinks count only when they point at a regular file.
func Scan(dir string, opts ...SortOption) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("list", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !IsImage(entry.Name()) || !isRegular(dir, entry) {
			continue
		}
		names = append(names, entry.Name())
	}

	Sort(names, opts...)
	return names, nil
}

// URLs maps file names onto root-relative URLs under prefix.
func URLs(names []string, prefix string) []string {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	urls := make([]string, len(names))
	for i, name := range names {
		urls[i] = prefix + "/" + name
	}
	return urls
}

func isRegular(dir string, entry os.DirEntry) bool {
	mode := entry.Type()
	if mode.IsRegular() {
		return true
	}
	if mode&os.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
