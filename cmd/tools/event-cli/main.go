package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/annel0/arpg-engine/internal/eventbus"
	"github.com/annel0/arpg-engine/internal/game"
)

const (
	defaultServerAddr = "http://localhost:8088"
	timeFormat        = "15:04:05.000"
)

func main() {
	var (
		serverAddr = flag.String("server", defaultServerAddr, "HTTP API address")
		natsURL    = flag.String("nats", "", "NATS URL for -follow (JetStream)")
		stream     = flag.String("stream", "", "JetStream stream name")
		command    = flag.String("cmd", "tail", "Command: tail, stats, types")
		eventTypes = flag.String("types", "", "Event types filter (comma-separated)")
		sources    = flag.String("sources", "", "Map names filter (comma-separated)")
		limit      = flag.Int("limit", 100, "Maximum number of events")
		follow     = flag.Bool("follow", false, "Follow new events from NATS (like tail -f)")
	)
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	switch *command {
	case "tail":
		opts := &TailOptions{
			EventTypes: parseStringList(*eventTypes),
			Sources:    parseStringList(*sources),
			Limit:      *limit,
		}
		var err error
		if *follow {
			err = followEvents(*natsURL, *stream, opts)
		} else {
			err = tailEvents(client, *serverAddr, opts)
		}
		if err != nil {
			log.Fatalf("❌ Tail failed: %v", err)
		}

	case "stats":
		if err := showStats(client, *serverAddr); err != nil {
			log.Fatalf("❌ Stats failed: %v", err)
		}

	case "types":
		showTypes()

	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: tail, stats, types")
		os.Exit(1)
	}
}

type TailOptions struct {
	EventTypes []string
	Sources    []string
	Limit      int
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func getJSON(client *http.Client, rawURL string, out interface{}) error {
	resp, err := client.Get(rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("bad response: %v", err)
	}
	if !body.Success {
		return fmt.Errorf("server: %s (%d)", body.Message, resp.StatusCode)
	}
	return json.Unmarshal(body.Data, out)
}

// tailEvents выводит последние события из истории сервера
func tailEvents(client *http.Client, server string, opts *TailOptions) error {
	fmt.Printf("🎬 Tailing events (limit: %d)\n", opts.Limit)

	types := opts.EventTypes
	if len(types) == 0 {
		types = []string{""}
	}

	var all []eventbus.Envelope
	for _, t := range types {
		q := url.Values{}
		q.Set("limit", fmt.Sprint(opts.Limit))
		if t != "" {
			q.Set("type", t)
		}
		var events []eventbus.Envelope
		if err := getJSON(client, server+"/api/events?"+q.Encode(), &events); err != nil {
			return err
		}
		all = append(all, events...)
	}

	count := 0
	for i := range all {
		if !matchSource(&all[i], opts.Sources) {
			continue
		}
		printEvent(&all[i])
		count++
	}
	fmt.Printf("\n📊 Total events: %d\n", count)
	return nil
}

// followEvents печатает новые события из JetStream до Ctrl+C
func followEvents(natsURL, stream string, opts *TailOptions) error {
	if natsURL == "" {
		return fmt.Errorf("-follow requires -nats")
	}
	bus, err := eventbus.NewJetStreamBus(natsURL, stream, 0)
	if err != nil {
		return err
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printed := make(chan struct{}, 64)
	sub, err := bus.Subscribe(ctx, eventbus.Filter{Types: opts.EventTypes, Sources: opts.Sources}, func(_ context.Context, ev *eventbus.Envelope) {
		printEvent(ev)
		printed <- struct{}{}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	fmt.Println("🎬 Following events, Ctrl+C to stop")
	count := 0
	for {
		select {
		case <-ctx.Done():
			fmt.Printf("\n📊 Total events: %d\n", count)
			return nil
		case <-printed:
			count++
			if opts.Limit > 0 && count >= opts.Limit {
				fmt.Printf("\n📊 Total events: %d\n", count)
				return nil
			}
		}
	}
}

// showStats выводит статистику симуляции и шины событий
func showStats(client *http.Client, server string) error {
	fmt.Println("📊 Server statistics")

	var stats map[string]json.RawMessage
	if err := getJSON(client, server+"/api/stats", &stats); err != nil {
		return err
	}
	for _, section := range []string{"simulation", "events", "server"} {
		raw, ok := stats[section]
		if !ok {
			continue
		}
		var pretty map[string]interface{}
		if err := json.Unmarshal(raw, &pretty); err != nil {
			return err
		}
		fmt.Printf("\n%s:\n", section)
		for k, v := range pretty {
			fmt.Printf("  %s: %v\n", k, v)
		}
	}
	return nil
}

// showTypes выводит известные типы событий с приоритетом и NATS subject
func showTypes() {
	fmt.Println("📋 Available event types")
	for t := game.EventTypeAbilityUsed; t <= game.EventTypeQuestCompleted; t++ {
		fmt.Printf("  %-22s priority=%d subject=%s\n", t, eventbus.PriorityOf(t), eventbus.Subject(t.String()))
	}
}

func matchSource(ev *eventbus.Envelope, sources []string) bool {
	if len(sources) == 0 {
		return true
	}
	for _, s := range sources {
		if s == ev.Source {
			return true
		}
	}
	return false
}

// printEvent выводит событие в читаемом формате
func printEvent(ev *eventbus.Envelope) {
	fmt.Printf("[%s] %s #%d [%s] %s\n",
		ev.Timestamp.Format(timeFormat),
		ev.Source,
		ev.Frame,
		ev.EventType,
		ev.ID)
	if len(ev.Payload) > 0 && string(ev.Payload) != "{}" {
		fmt.Printf("  %s\n", ev.Payload)
	}
}

// parseStringList парсит строку с разделителями-запятыми
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
