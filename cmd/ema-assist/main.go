package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	orchestration "github.com/koscakluka/ema-assist/core"
	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/intents"
	"github.com/koscakluka/ema-assist/core/locales"
)

type config struct {
	mode         string
	catalogPath  string
	locale       locales.Locale
	audioBackend string
	printSchema  bool
	dumpCatalog  bool
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	mode := cli.StringP("mode", "m", "chat", "Session to run: chat or voice")
	catalogPath := cli.StringP("catalog", "c", "", "YAML intent catalog replacing the built-in one")
	localeName := cli.StringP("locale", "l", "primary", "Initial locale: primary or secondary")
	audioBackend := cli.String("audio", "miniaudio", "Audio backend for voice mode: miniaudio or portaudio")
	logFile := cli.String("log-file", "", "Write logs to this file")
	logLevel := cli.String("log-level", "info", "Log level")
	printSchema := cli.Bool("print-catalog-schema", false, "Print the catalog file JSON schema and exit")
	dumpCatalog := cli.Bool("dump-catalog", false, "Print the catalog of the selected mode as YAML and exit")
	cli.Parse()

	closeLog, err := setupLogging(*logFile, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load env file", "path", *envFile, "err", err)
	}

	locale, ok := locales.Parse(*localeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown locale %q\n", *localeName)
		os.Exit(2)
	}

	cfg := config{
		mode:         strings.ToLower(*mode),
		catalogPath:  *catalogPath,
		locale:       locale,
		audioBackend: strings.ToLower(*audioBackend),
		printSchema:  *printSchema,
		dumpCatalog:  *dumpCatalog,
	}
	if err := run(cfg, os.Stdout); err != nil {
		slog.Error("Exiting", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config, stdout io.Writer) error {
	if cfg.printSchema {
		schema, err := intents.CatalogSchema()
		if err != nil {
			return err
		}
		_, err = stdout.Write(schema)
		return err
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	if cfg.dumpCatalog {
		return intents.EncodeCatalog(stdout, catalog)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The views render from session state; events only wake them up, so a
	// full channel can drop them.
	sessionEvents := make(chan events.Event, 64)
	forward := func(event events.Event) {
		select {
		case sessionEvents <- event:
		default:
			slog.Debug("Dropped session event", "kind", event.Kind())
		}
	}

	var model tea.Model
	switch cfg.mode {
	case "chat":
		session := orchestration.NewDialogueSession(
			orchestration.WithCatalog(catalog),
			orchestration.WithLocale(cfg.locale),
			orchestration.WithEventHandler(forward),
		)
		defer session.Close()
		model = newChatModel(session, sessionEvents)

	case "voice":
		device, err := openAudio(cfg.audioBackend)
		if err != nil {
			return err
		}
		defer func() {
			if err := device.Close(); err != nil {
				slog.Warn("Failed to close audio device", "err", err)
			}
		}()

		recognizer, synthesizer := newSpeechBackends(ctx, device)
		session := orchestration.NewVoiceSession(
			orchestration.WithCatalog(catalog),
			orchestration.WithLocale(cfg.locale),
			orchestration.WithRecognizer(recognizer),
			orchestration.WithSynthesizer(synthesizer),
			orchestration.WithEventHandler(forward),
		)
		defer session.Close()
		model = newVoiceModel(ctx, session, sessionEvents)

	default:
		return fmt.Errorf("unknown mode %q", cfg.mode)
	}

	slog.Info("Starting session", "mode", cfg.mode, "locale", cfg.locale)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func loadCatalog(cfg config) (intents.Catalog, error) {
	if cfg.catalogPath == "" {
		if cfg.mode == "voice" {
			return intents.VoiceCatalog(), nil
		}
		return intents.ChatCatalog(), nil
	}

	catalog, err := intents.LoadCatalog(cfg.catalogPath)
	if err != nil {
		return intents.Catalog{}, err
	}
	if string(catalog.Channel) != cfg.mode {
		return intents.Catalog{}, fmt.Errorf("catalog %s is a %s catalog, not %s", cfg.catalogPath, catalog.Channel, cfg.mode)
	}
	return catalog, nil
}
