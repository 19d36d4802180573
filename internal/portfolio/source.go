package portfolio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// readSource parses the portfolio CSV. The header must name a tech-stack
// column and a link column. Empty cells are kept as empty strings rather than
// dropped, so row-to-id correspondence stays stable.
func readSource(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty portfolio source")
	}

	techCol, linkCol := -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "techstack", "tech_stack":
			techCol = i
		case "links", "link":
			linkCol = i
		}
	}
	if techCol < 0 || linkCol < 0 {
		return nil, fmt.Errorf("missing Techstack/Links columns in header %v", records[0])
	}

	entries := make([]Entry, 0, len(records)-1)
	for _, row := range records[1:] {
		var e Entry
		if techCol < len(row) {
			e.TechStack = strings.TrimSpace(row[techCol])
		}
		if linkCol < len(row) {
			e.Link = strings.TrimSpace(row[linkCol])
		}
		entries = append(entries, e)
	}
	return entries, nil
}
