package initialize

import (
	"strings"

	"aotd/config"
	. "aotd/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeAdmins(db, config, log); err != nil {
		return log.Err("failed to initialize admins", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeAdmins promotes the configured bootstrap Discord accounts to
// admin so a fresh deployment has at least one user who can manage the pool.
func initializeAdmins(db *gorm.DB, config config.Config, log logger.Logger) error {
	if config.AdminDiscordIDs == "" {
		log.Info("No bootstrap admin ids configured, skipping")
		return nil
	}

	for _, discordID := range strings.Split(config.AdminDiscordIDs, ",") {
		discordID = strings.TrimSpace(discordID)
		if discordID == "" {
			continue
		}
		result := db.Model(&User{}).
			Where("discord_id = ?", discordID).
			Update("is_admin", true)
		if result.Error != nil {
			return log.Err("failed to promote admin", result.Error, "discordID", discordID)
		}
		if result.RowsAffected == 0 {
			log.Info("Bootstrap admin has not logged in yet", "discordID", discordID)
			continue
		}
		log.Info("Promoted bootstrap admin", "discordID", discordID)
	}

	return nil
}
