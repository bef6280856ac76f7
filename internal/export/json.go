package export

import (
	"encoding/json"
	"io"
)

// WriteJSON streams sweep rows as indented JSON.
func WriteJSON(w io.Writer, rows []SweepRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
