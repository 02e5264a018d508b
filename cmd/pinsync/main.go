// ABOUTME: CLI for pinsync: push, delete, and list timeline pins
// ABOUTME: Thin wrapper over internal/service; pin objects pass through opaquely

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/rebble/pinsync/internal/config"
	"github.com/rebble/pinsync/internal/creds"
	"github.com/rebble/pinsync/internal/pin"
	"github.com/rebble/pinsync/internal/pinstore"
	"github.com/rebble/pinsync/internal/service"
	"github.com/rebble/pinsync/internal/timeline"
)

// Version is set by goreleaser at build time.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "add":
		err = cmdAdd(args)
	case "delete":
		err = cmdDelete(args)
	case "list":
		err = cmdList(args)
	case "status":
		err = cmdStatus(args)
	case "version":
		fmt.Println("pinsync", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: pinsync <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  add                     Push a pin to the timeline and mirror it locally")
	fmt.Println("  delete <id>             Delete a pin from the timeline and the local mirror")
	fmt.Println("  list                    List locally mirrored pins")
	fmt.Println("  status                  Show store location and per-token pin counts")
	fmt.Println("  version                 Print the version")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  PINSYNC_CONFIG          Config file path (default: ~/.config/pinsync/config.yaml)")
	fmt.Println("  PINSYNC_TOKEN           Timeline token when the config has none")
}

// getConfigPath returns the path to the pinsync config file.
// Priority: PINSYNC_CONFIG env var > <user config dir>/pinsync/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("PINSYNC_CONFIG"); envPath != "" {
		return envPath
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml" // fallback
	}
	return filepath.Join(base, "pinsync", "config.yaml")
}

// newService wires config, logger, timeline client, store, and credentials.
func newService() (*service.Service, *config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, nil, err
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	client := timeline.New(cfg.Timeline.APIURL, logger)
	coord := pinstore.NewCoordinator(
		filepath.Join(cfg.Store.Dir, pinstore.StoreFileName),
		cfg.Store.RetentionMonths,
		logger,
	)
	resolver := creds.NewConfigResolver(cfg.Timeline.Token)

	return service.New(client, coord, resolver, logger), cfg, nil
}

func cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	id := fs.String("id", "", "pin id (generated if empty)")
	eventTime := fs.String("time", "", "event time, RFC3339 (required unless -json)")
	title := fs.String("title", "", "pin title")
	body := fs.String("body", "", "pin body text")
	rawJSON := fs.String("json", "", "complete pin object as JSON (overrides other pin flags)")
	token := fs.String("token", "", "timeline token override")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var fields map[string]any
	if *rawJSON != "" {
		if err := json.Unmarshal([]byte(*rawJSON), &fields); err != nil {
			return fmt.Errorf("parsing -json: %w", err)
		}
		if fields == nil {
			return fmt.Errorf("-json must be a JSON object")
		}
		if _, ok := fields["id"]; !ok {
			fields["id"] = uuid.New().String()
		}
	} else {
		if *eventTime == "" {
			return fmt.Errorf("-time is required (RFC3339, e.g. 2024-06-15T12:00:00Z)")
		}
		if _, err := time.Parse(time.RFC3339, *eventTime); err != nil {
			return fmt.Errorf("parsing -time: %w", err)
		}
		if *id == "" {
			*id = uuid.New().String()
		}
		layout := map[string]any{"type": "genericPin", "title": *title}
		if *body != "" {
			layout["body"] = *body
		}
		fields = map[string]any{
			"id":     *id,
			"time":   *eventTime,
			"layout": layout,
		}
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}

	res, err := svc.AddPin(context.Background(), *token, fields)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		color.Yellow("Warning: %s\n", w)
	}
	color.Green("Pin %v created\n", fields["id"])
	return nil
}

func cmdDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	token := fs.String("token", "", "timeline token override")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: pinsync delete <id>")
	}
	id := fs.Arg(0)

	svc, _, err := newService()
	if err != nil {
		return err
	}

	res, err := svc.DeletePin(context.Background(), *token, id)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		color.Yellow("Warning: %s\n", w)
	}
	if res.Removed {
		color.Green("Pin %s deleted\n", id)
	} else {
		fmt.Printf("Pin %s was not in the local mirror (remote delete still issued)\n", id)
	}
	return nil
}

func cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	fromRaw := fs.String("from", "", "earliest event time, RFC3339 (inclusive)")
	toRaw := fs.String("to", "", "latest event time, RFC3339 (inclusive)")
	token := fs.String("token", "", "timeline token override")
	asJSON := fs.Bool("json", false, "print pins as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	from, err := parseOptionalTime(*fromRaw, "-from")
	if err != nil {
		return err
	}
	to, err := parseOptionalTime(*toRaw, "-to")
	if err != nil {
		return err
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}

	res, err := svc.ListPins(context.Background(), *token, from, to)
	if err != nil {
		return err
	}

	if *asJSON {
		out := make([]map[string]any, 0, len(res.Pins))
		for _, p := range res.Pins {
			out = append(out, p.Stored())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(res.Pins) == 0 {
		fmt.Println("No pins")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEVENT TIME\tSTORED\tTITLE")
	for _, p := range res.Pins {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.ID,
			formatTime(p.EventTime),
			formatTime(p.StoredAt),
			pinTitle(p),
		)
	}
	return w.Flush()
}

func cmdStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Store.Dir, pinstore.StoreFileName)
	store, loadErr := pinstore.NewFileStore(path).Load()

	cyan := color.New(color.FgCyan)
	cyan.Println("pinsync status")
	fmt.Printf("  store file:  %s\n", path)
	fmt.Printf("  retention:   %d month(s)\n", cfg.Store.RetentionMonths)
	if loadErr != nil {
		color.Yellow("  store file is unreadable; operations will start from empty\n")
		return nil
	}
	fmt.Printf("  tokens:      %d\n", len(store))
	fmt.Printf("  total pins:  %d\n", store.TotalPins())
	for token, coll := range store {
		fmt.Printf("    %s: %d pin(s)\n", maskToken(token), len(coll))
	}
	return nil
}

func parseOptionalTime(raw, flagName string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", flagName, err)
	}
	return &t, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// pinTitle digs the layout title out of the opaque payload for display.
func pinTitle(p pin.Pin) string {
	layout, ok := p.Fields["layout"].(map[string]any)
	if !ok {
		return ""
	}
	title, _ := layout["title"].(string)
	return title
}

// maskToken keeps the first and last few characters of a token for display.
func maskToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:4] + "…" + token[len(token)-4:]
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
