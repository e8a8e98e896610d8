package branches

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

func parseListCell(s string) []string {
	parts := strings.Split(s, "/")
	out := []string{}
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" && t != "-" {
			out = append(out, t)
		}
	}
	return out
}

// Load reads branches from a CSV with a header row containing at least
// "name"; "state", "region" and "zones" (slash separated) are optional.
// An empty path yields the built-in list.
func Load(path string) ([]Branch, error) {
	if path == "" {
		out := make([]Branch, len(Builtin))
		copy(out, Builtin)
		return out, nil
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("csv %s has no name column", path)
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Branch{}
	seen := map[string]bool{}
	for _, row := range rows[1:] {
		name := get(row, "name")
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		out = append(out, Branch{
			Name:   name,
			State:  get(row, "state"),
			Region: get(row, "region"),
			Zones:  parseListCell(get(row, "zones")),
		})
	}
	return out, nil
}
