package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	pkg "git.solsynth.dev/hypernet/colloquy/pkg/internal"
	"git.solsynth.dev/hypernet/colloquy/pkg/internal/database"
	"git.solsynth.dev/hypernet/colloquy/pkg/internal/fixtures"
	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"git.solsynth.dev/hypernet/colloquy/pkg/internal/services"
	jsoniter "github.com/json-iterator/go"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	services.ApplyDefaults()

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Pick the message source
	var source services.MessageSource
	switch viper.GetString("source") {
	case "database":
		if err := database.NewSource(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when connect to database.")
		} else if err := database.RunMigration(database.C); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
		}
		source = database.NewMessageSource(database.C, viper.GetInt("database.take"))
	default:
		source = fixtures.NewSource(viper.GetDuration("fixtures.load_delay"))
	}

	// Build the directory
	locale, err := language.Parse(viper.GetString("directory.locale"))
	if err != nil {
		log.Warn().Err(err).Msg("Unknown directory locale, falling back to Romanian...")
		locale = language.Romanian
	}
	directory := services.NewDirectory(locale)
	directory.Seed(fixtures.Channels(), fixtures.DirectThreads())
	for _, user := range fixtures.Users() {
		if user.ID == fixtures.CurrentUser.ID {
			continue
		}
		if _, ok := directory.GetDirectThreadByUser(fixtures.CurrentUser.ID, user.ID); ok {
			continue
		}
		if _, err := directory.AddDirectThread(fixtures.CurrentUser, user); err != nil {
			log.Warn().Err(err).Str("user", user.ID).Msg("An error occurred when opening direct thread.")
		}
	}

	session := services.NewSession(fixtures.CurrentUser, viper.GetBool("session.is_admin"), directory, source)
	session.Bus.Subscribe(func(event models.Event) {
		entry := log.Info().
			Str("type", event.Type).
			Str("conversation", event.ConversationID).
			Str("message", event.MessageID)
		if payload, err := jsoniter.Marshal(event.Payload); err == nil {
			entry = entry.RawJSON("payload", payload)
		}
		entry.Msg("Conversation event dispatched.")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initial := viper.GetString("session.initial_conversation")
	if done, err := session.SelectConversation(ctx, initial); err != nil {
		log.Error().Err(err).Str("conversation", initial).Msg("An error occurred when selecting the initial conversation.")
	} else if err := <-done; err != nil {
		log.Error().Err(err).Str("conversation", initial).Msg("An error occurred when loading the initial conversation.")
	}

	sidebar := session.Directory.Sidebar("", session.User.ID)
	for _, channel := range sidebar.Channels {
		log.Info().
			Str("id", channel.ID).
			Bool("pinned", channel.IsPinned).
			Bool("archived", channel.IsArchived).
			Int("unread", channel.UnreadCount).
			Msgf("# %s", channel.Name)
	}
	for _, thread := range sidebar.Directs {
		log.Info().
			Str("id", thread.ID).
			Int("unread", thread.UnreadCount).
			Msgf("@ %s", thread.DisplayText(session.User.ID))
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(viper.GetString("reminders.sweep"), session.DispatchDueReminders); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when scheduling the reminder sweep.")
	}
	quartz.Start()

	// Messages
	log.Info().Msgf("Colloquy v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("Colloquy v%s is quitting...", pkg.AppVersion)

	session.Messages.Unload()
	quartz.Stop()
}
