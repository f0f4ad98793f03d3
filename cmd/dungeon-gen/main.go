package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/annel0/arpg-engine/internal/config"
	"github.com/annel0/arpg-engine/internal/dungeon"
	"github.com/annel0/arpg-engine/internal/mapdata"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config (dungeon section)")
		seed       = flag.Int64("seed", 0, "generation seed (0 - current time)")
		format     = flag.String("format", "ascii", "Output format: ascii, yaml")
		output     = flag.String("o", "", "Output file (default stdout)")
		rooms      = flag.Int("rooms", 0, "Override number of rooms")
		density    = flag.Float64("density", 0, "Override enemy density")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if *rooms > 0 {
		cfg.Dungeon.Rooms = *rooms
	}
	if *density > 0 {
		cfg.Dungeon.EnemyDensity = *density
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	d, err := dungeon.Generate(dungeon.OptionsFromConfig(cfg.Dungeon, *seed))
	if err != nil {
		log.Fatalf("❌ Ошибка генерации: %v", err)
	}

	var out []byte
	switch *format {
	case "ascii":
		out = []byte(d.ASCII())
	case "yaml":
		out, err = mapdata.Encode(d.Map)
		if err != nil {
			log.Fatalf("❌ Ошибка сериализации: %v", err)
		}
	default:
		fmt.Printf("❌ Unknown format: %s\n", *format)
		fmt.Println("Available formats: ascii, yaml")
		os.Exit(1)
	}

	if *output == "" {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(*output, out, 0o644); err != nil {
		log.Fatalf("❌ Ошибка записи %s: %v", *output, err)
	}
	fmt.Fprintf(os.Stderr, "✅ %s: %d комнат, %d NPC, seed=%d\n", *output, len(d.Rooms), len(d.Map.NPCs), *seed)
}
