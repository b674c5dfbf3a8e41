package output

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/law-makers/newswatch/pkg/models"
)

// KeywordSeparator joins matched keywords inside one CSV cell
const KeywordSeparator = "; "

var csvHeader = []string{"url", "title", "keywords", "date"}

// WriteCSV writes one row per match, in result order.
func WriteCSV(w io.Writer, results []models.MatchResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{r.URL, r.Title, strings.Join(r.Keywords, KeywordSeparator), r.Date}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV writes results to a CSV file. Returns an error on failure.
func SaveCSV(results []models.MatchResult, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(file, results)
}
