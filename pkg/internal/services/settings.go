package services

import (
	"time"

	"github.com/spf13/viper"
)

// ApplyDefaults registers fallback values for every setting the core reads.
func ApplyDefaults() {
	viper.SetDefault("source", "fixtures")
	viper.SetDefault("fixtures.load_delay", 300*time.Millisecond)
	viper.SetDefault("directory.locale", "ro")
	viper.SetDefault("links.base_url", "https://chat.local")
	viper.SetDefault("links.ttl", 7*24*time.Hour)
	viper.SetDefault("reminders.sweep", "@every 1m")
	viper.SetDefault("session.is_admin", false)
	viper.SetDefault("session.initial_conversation", "c-general")
	viper.SetDefault("database.take", 200)
	viper.SetDefault("database.prefix", "colloquy_")
}
