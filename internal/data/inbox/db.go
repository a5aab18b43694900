package inbox

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/adamn1225/adam-noahs-stuff/internal/domain/contact"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

// Supported INBOX_DRIVER values.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the inbox database and migrates the contact table.
// DriverNone (or an empty driver) returns a nil DB with no error.
func Open(driver, dsn string, baseLog *logger.Logger) (*gorm.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	dbLog := baseLog.With("service", "InboxDB", "driver", driver)

	var dialector gorm.Dialector
	switch driver {
	case "", DriverNone:
		dbLog.Info("Inbox persistence disabled")
		return nil, nil
	case DriverSQLite:
		if strings.TrimSpace(dsn) == "" {
			dsn = "data/inbox.db"
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		if strings.TrimSpace(dsn) == "" {
			return nil, fmt.Errorf("missing INBOX_DSN for postgres inbox")
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown inbox driver %q", driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to inbox database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	dbLog.Info("Inbox database ready")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&contact.Message{}); err != nil {
		return fmt.Errorf("migrate inbox: %w", err)
	}
	return nil
}
