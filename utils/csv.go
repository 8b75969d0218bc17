package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"squadpoll_server/models"
)

// CsvPlayerRow is one parsed roster row from a CSV import
type CsvPlayerRow struct {
	Name     string
	WhatsApp string
	Role     string
	Location string
}

// ParseRosterCsv parses an uploaded roster CSV. The header row is required;
// column names are matched case-insensitively and "phone" is accepted as an
// alias for "whatsapp". Roles are uppercased and space/hyphen separators
// normalized to underscores before validation.
func ParseRosterCsv(r io.Reader) ([]CsvPlayerRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, names ...string) string {
		for _, name := range names {
			if idx, ok := cols[name]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
		}
		return ""
	}

	var rows []CsvPlayerRow
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		line++

		name := field(record, "name")
		whatsapp := field(record, "whatsapp", "phone")
		role := field(record, "role")
		location := field(record, "location")

		if name == "" || whatsapp == "" {
			return nil, fmt.Errorf("row %d: name and whatsapp are required", line)
		}

		role = strings.ToUpper(role)
		role = strings.NewReplacer(" ", "_", "-", "_").Replace(role)
		if !validRole(role) {
			return nil, fmt.Errorf("row %d: invalid role %q. Must be one of: %s",
				line, role, strings.Join(models.ValidRoles, ", "))
		}

		rows = append(rows, CsvPlayerRow{
			Name:     name,
			WhatsApp: whatsapp,
			Role:     role,
			Location: location,
		})
	}

	return rows, nil
}

func validRole(role string) bool {
	for _, r := range models.ValidRoles {
		if role == r {
			return true
		}
	}
	return false
}
