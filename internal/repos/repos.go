package repos

import "gorm.io/gorm"

// randExpr returns the dialect's random-ordering function. MariaDB spells it
// RAND(), sqlite (used by tests) RANDOM().
func randExpr(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "RANDOM()"
	}
	return "RAND()"
}
