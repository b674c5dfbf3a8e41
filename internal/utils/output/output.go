// Package output exports scrape responses to files.
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/law-makers/newswatch/pkg/models"
)

// Save picks the export format from the file extension.
func Save(resp models.Response, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(resp, path)
	case ".csv":
		return SaveCSV(resp.Results, path)
	case ".html", ".htm":
		return SaveHTML(resp.Results, path)
	case ".md", ".markdown":
		return SaveMarkdown(resp.Results, path)
	default:
		return fmt.Errorf("unsupported output format %q (use .json, .csv, .html or .md)", filepath.Ext(path))
	}
}
