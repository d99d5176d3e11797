// Command chat-extractor extracts, anonymizes and formats conversation data
// from a Mattermost Postgres database. Developed as part of the DocTalk
// research project at Charité Universitätsmedizin Berlin.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/DocTalkCharite/chat-extractor/internal/config"
	"github.com/DocTalkCharite/chat-extractor/internal/extractor"
	"github.com/DocTalkCharite/chat-extractor/internal/patterns"
	"github.com/DocTalkCharite/chat-extractor/internal/redact"
	"github.com/DocTalkCharite/chat-extractor/internal/store"
	"github.com/DocTalkCharite/chat-extractor/internal/transcript"
)

type options struct {
	databaseURL string
	patternDir  string
	writeTo     string
	logLevel    string
	channelType string
	teamName    string
	channelID   string
	since       string
	showEmpty   bool
	noAnonymize bool
}

var validChannelTypes = map[string]bool{"O": true, "P": true, "D": true, "G": true}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Load()
	var opts options

	cmd := &cobra.Command{
		Use:   "chat-extractor",
		Short: "Extract and anonymize chat content from a Mattermost database",
		Long: `chat-extractor pulls channels and their threaded messages out of a
Mattermost Postgres database, replaces operator-supplied literal terms with
redaction placeholders, aliases author names and writes one transcript per
channel to stdout or to a directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.databaseURL, "database-url", cfg.DatabaseURL, "Postgres connection URL (env DATABASE_URL)")
	flags.StringVar(&opts.patternDir, "patterns", cfg.PatternDir, "directory of pattern files, one label per file")
	flags.StringVar(&opts.writeTo, "write-to", cfg.WriteTo, "directory to write one file per channel (default: stdout)")
	flags.StringVar(&opts.channelType, "channel-type", cfg.ChannelType, "restrict to a channel type (O, P, D or G)")
	flags.StringVar(&opts.teamName, "team", cfg.TeamName, "restrict to a team by display name")
	flags.StringVar(&opts.channelID, "channel-id", cfg.ChannelID, "extract a single channel by id")
	flags.StringVar(&opts.since, "since", "", "only messages created on or after this date (YYYY-MM-DD)")
	flags.BoolVar(&opts.showEmpty, "show-empty", false, "emit channels that contain no messages")
	flags.BoolVar(&opts.noAnonymize, "no-anonymize", false, "skip redaction and author aliasing")
	flags.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	return cmd
}

func run(ctx context.Context, opts options) error {
	setupLogging(opts.logLevel)
	logger := slog.Default().With("run_id", uuid.New().String())

	if opts.databaseURL == "" {
		logger.Error("database URL is required (--database-url or DATABASE_URL)")
		return errors.New("missing database URL")
	}
	if opts.channelType != "" && !validChannelTypes[opts.channelType] {
		logger.Error("invalid channel type", "value", opts.channelType)
		return fmt.Errorf("invalid channel type %q, want O, P, D or G", opts.channelType)
	}
	since, err := parseSince(opts.since)
	if err != nil {
		logger.Error("invalid --since value", "value", opts.since, "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Patterns load before anything touches the database: a bad pattern
	// directory must abort with no extraction started.
	set, err := patterns.Load(opts.patternDir)
	if err != nil {
		logger.Error("failed to load patterns", "error", err)
		return err
	}
	logger.Info("patterns loaded", "dir", opts.patternDir, "labels", len(set.Labels()), "terms", set.TermCount())

	// The sink is validated before extraction too, so a missing destination
	// directory fails before any channel file is created.
	var sink transcript.Sink
	if opts.writeTo != "" {
		dirSink, err := transcript.NewDirSink(opts.writeTo)
		if err != nil {
			logger.Error("destination not usable", "error", err)
			return err
		}
		sink = dirSink
	} else {
		sink = transcript.NewStreamSink(os.Stdout)
	}

	db, err := store.New(ctx, opts.databaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	ext := extractor.New(db, redact.New(set), logger, extractor.Options{
		Since:       since,
		ShowEmpty:   opts.showEmpty,
		NoAnonymize: opts.noAnonymize,
	})

	iter, err := ext.Extract(ctx, store.Filter{
		ChannelID:   opts.channelID,
		ChannelType: opts.channelType,
		TeamName:    opts.teamName,
	})
	if err != nil {
		logger.Error("extraction failed", "error", err)
		return err
	}

	var emitted, skipped int
	for {
		conv, err := iter.Next(ctx)
		if err != nil {
			var chErr *extractor.ChannelError
			if errors.As(err, &chErr) {
				// Channel-scoped: skip and continue.
				logger.Warn("channel skipped", "channel", chErr.ChannelID, "error", chErr.Err)
				skipped++
				continue
			}
			logger.Error("extraction aborted", "error", err)
			return err
		}
		if conv == nil {
			break
		}
		if err := sink.Emit(conv); err != nil {
			logger.Warn("channel output failed", "channel", conv.Channel.ID, "error", err)
			skipped++
			continue
		}
		emitted++
	}

	logger.Info("run complete", "emitted", emitted, "skipped", skipped)
	return nil
}

// parseSince converts a YYYY-MM-DD date to the extraction lower bound.
func parseSince(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a valid date: %q (want YYYY-MM-DD)", s)
	}
	return t.UTC(), nil
}

// setupLogging installs a JSON slog handler on stderr. Stdout is reserved for
// transcript output.
func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
