package site

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/docsite/pkg/constants"
	"github.com/agentstation/docsite/pkg/errors"
	"github.com/agentstation/docsite/pkg/logging"
)

const (
	markdownExt       = ".md"
	frontMatterPrefix = "---"
	indexFileName     = "_index"
	readmeFileName    = "README"

	// Weight constants
	defaultWeight = 10
	indexWeight   = 1

	basicFrontMatterTmpl = `---
title: "%s"
weight: %d
---`
)

// addFrontMatter adds Hugo front matter to Markdown files under content/
// that have none, so every page gets a title and a menu weight.
func (s *Site) addFrontMatter(ctx context.Context) error {
	contentDir := filepath.Join(s.rootDir, contentDirName)
	if _, err := os.Stat(contentDir); os.IsNotExist(err) {
		return nil
	}

	logger := logging.FromContext(ctx)

	return filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, markdownExt) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return errors.WrapIO("read", path, err)
		}
		if strings.HasPrefix(string(content), frontMatterPrefix) {
			return nil
		}

		updated := fmt.Sprintf("%s\n%s", frontMatter(path), string(content))
		if err := os.WriteFile(path, []byte(updated), constants.FilePermissions); err != nil {
			return errors.WrapIO("write", path, err)
		}

		logger.Debug().
			Str("file", path).
			Msg("Added front matter")

		return nil
	})
}

// frontMatter creates front matter for a content file from its name.
func frontMatter(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), markdownExt)

	weight := defaultWeight
	if base == indexFileName || base == readmeFileName {
		weight = indexWeight
		base = filepath.Base(filepath.Dir(path))
	}

	title := strings.NewReplacer("-", " ", "_", " ").Replace(base)
	title = cases.Title(language.English).String(title)

	return fmt.Sprintf(basicFrontMatterTmpl, title, weight)
}
