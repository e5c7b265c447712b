package mysql

import (
	"strings"

	"concierge/internal/domain"
)

// erDupEntry is MySQL's ER_DUP_ENTRY.
const erDupEntry = 1062

// Column lists follow domain.Fields so the schema and the matcher never drift.
var (
	fieldColumns = func() []string {
		cols := make([]string, 0, len(domain.Fields))
		for _, f := range domain.Fields {
			cols = append(cols, f.Column)
		}
		return cols
	}()

	// Plain INSERT: the PRIMARY KEY on phone_number rejects the second
	// registration, no ON DUPLICATE KEY UPDATE here.
	insertPropertySQL = "INSERT INTO properties\n  (phone_number, " + strings.Join(fieldColumns, ", ") + ")\nVALUES\n  (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(fieldColumns)+1), ", ") + ")"

	getPropertySQL = "SELECT phone_number, " + strings.Join(fieldColumns, ", ") +
		"\nFROM properties\nWHERE phone_number = ?"
)
