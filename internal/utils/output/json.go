package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/law-makers/newswatch/pkg/models"
)

// WriteJSON writes the response in its wire shape, indented.
func WriteJSON(w io.Writer, resp models.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// SaveJSON writes the response to filepath.
func SaveJSON(resp models.Response, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, resp)
}
