package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/KevinNickolai/wolfbot/internal/bot"
	"github.com/KevinNickolai/wolfbot/internal/config"
	"github.com/KevinNickolai/wolfbot/internal/discord"
	"github.com/KevinNickolai/wolfbot/internal/game"
	"github.com/KevinNickolai/wolfbot/internal/store"
	"github.com/KevinNickolai/wolfbot/internal/words"
	"github.com/KevinNickolai/wolfbot/migrations"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Status server port (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`wolfbot - Word Wolf over Discord

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Status server port (default: 8080 or PORT env var)

Environment Variables:
  DISCORD_TOKEN   Discord bot token (required)
  DATABASE_URL    Postgres connection string (in-memory storage when unset)
  COMMAND_PREFIX  Chat command prefix (default: !)
  PORT            Status server port (default: 8080)
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("wolfbot %s\n", version)
		return
	}

	// .env is a dev convenience, absence is fine
	_ = godotenv.Load()

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)
	logger := zerologlog.Logger

	cfg := config.FromEnv()
	if *portFlag != "" {
		cfg.Port = *portFlag
	}
	if cfg.DiscordToken == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	var st store.Store
	if cfg.DatabaseURL != "" {
		if err := migrations.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		pg, err := store.NewPostgres(runCtx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pg.Close()
		st = pg
	} else {
		logger.Warn().Msg("DATABASE_URL unset, game records will not survive restarts")
		st = store.NewMemory()
	}

	// Discord session
	ds, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("discord session: %v", err)
	}
	ds.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	chat := discord.New(ds, logger)

	if err := ds.Open(); err != nil {
		log.Fatalf("discord open: %v", err)
	}
	defer ds.Close()

	house := game.Participant{ID: ds.State.User.ID, Name: ds.State.User.Username}
	selector := words.NewSelector()
	registry := game.NewRegistry(house, chat, st,
		game.WithSelector(selector),
		game.WithLogger(logger),
	)

	b := bot.New(cfg.CommandPrefix, registry, st, chat, selector, runCtx, logger)
	ds.AddHandler(b.HandleMessage)
	logger.Info().Str("user", house.Name).Str("prefix", cfg.CommandPrefix).Msg("connected")

	// Gin setup with custom logger
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zerologlog.Info().
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})
	r.GET("/api/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"activeGames": registry.ActiveSessions(),
			"user":        house.Name,
		})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-runCtx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
