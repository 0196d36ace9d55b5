package display

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrettyPrintJSON prints formatted JSON
func PrettyPrintJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%sError formatting JSON: %s%s\n", Red, err.Error(), Reset)
		return
	}
	fmt.Fprintln(w, string(data))
}

// MoveHistory formats moves as numbered plies, one chain jump per entry
func MoveHistory(moves []string) string {
	out := ""
	for i, m := range moves {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%d.%s", i+1, m)
	}
	return out
}
