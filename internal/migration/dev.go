package migration

import (
	"fmt"

	"gorm.io/gorm"

	auditdomain "github.com/smallbiznis/taxgate/internal/audit/domain"
	membershipdomain "github.com/smallbiznis/taxgate/internal/membership/domain"
)

// RunDev auto-migrates the schema for the sqlite dev/test mode, where the
// embedded postgres migrations do not apply.
func RunDev(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("migration database handle is required")
	}

	return conn.AutoMigrate(
		&membershipdomain.Level{},
		&membershipdomain.Member{},
		&membershipdomain.Payment{},
		&membershipdomain.PaymentMeta{},
		&auditdomain.APILog{},
	)
}
