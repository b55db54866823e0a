package report

import (
	"encoding/json"
	"io"

	"github.com/raysh454/folio-a11y/internal/audit"
)

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, res *audit.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
