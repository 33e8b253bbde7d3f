package database

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/pizzagpt/utils"
)

// RestoreFromSQL executes a plain SQL dump against db, one statement at a
// time, inside a single transaction. Transaction control statements in the
// dump are skipped.
func RestoreFromSQL(db *gorm.DB, dumpPath string) error {
	raw, err := os.ReadFile(dumpPath)
	if err != nil {
		return fmt.Errorf("failed to read SQL dump: %w", err)
	}

	statements := SplitSQLStatements(string(raw))
	utils.InfoLogger.Printf("Restoring %d statements from %s", len(statements), dumpPath)

	executed := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		for i, stmt := range statements {
			if isTransactionControl(stmt) {
				continue
			}
			if err := tx.Exec(stmt).Error; err != nil {
				utils.ErrorLogger.Printf("Error executing statement %d: %v\nStatement: %s", i+1, err, stmt)
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
			executed++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("SQL restore failed: %w", err)
	}

	utils.InfoLogger.Printf("SQL restore completed: %d statements executed", executed)
	return nil
}

// SplitSQLStatements splits a script on semicolons that are outside quotes
// and comments. Comments are dropped and empty statements are skipped.
func SplitSQLStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(script); i++ {
		ch := script[i]
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			// copy the quoted run; a doubled quote is an escaped quote
			current.WriteByte(ch)
			for i++; i < len(script); i++ {
				current.WriteByte(script[i])
				if script[i] == ch {
					if i+1 < len(script) && script[i+1] == ch {
						i++
						current.WriteByte(script[i])
						continue
					}
					break
				}
			}
		case ch == '-' && i+1 < len(script) && script[i+1] == '-':
			for i < len(script) && script[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
		case ch == '/' && i+1 < len(script) && script[i+1] == '*':
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				i = len(script)
			} else {
				i += end + 3
			}
			current.WriteByte(' ')
		case ch == ';':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return statements
}

func isTransactionControl(stmt string) bool {
	s := strings.ToUpper(strings.Join(strings.Fields(stmt), " "))
	switch s {
	case "BEGIN", "BEGIN TRANSACTION", "START TRANSACTION", "COMMIT", "END", "END TRANSACTION", "ROLLBACK":
		return true
	}
	return false
}
