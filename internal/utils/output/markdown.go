package output

import (
	"os"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/law-makers/newswatch/pkg/models"
)

// RenderMarkdown converts the HTML table of results into a GitHub-flavored Markdown table.
func RenderMarkdown(results []models.MatchResult) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	page, err := RenderHTML(results)
	if err != nil {
		return "", err
	}
	cleaned, err := CleanHTML(page)
	if err != nil {
		return "", err
	}

	return converter.ConvertString(cleaned)
}

// SaveMarkdown converts results to Markdown and writes it to filepath
func SaveMarkdown(results []models.MatchResult, filepath string) error {
	mdStr, err := RenderMarkdown(results)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, []byte(mdStr+"\n"), 0644)
}
