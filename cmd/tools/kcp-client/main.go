package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/annel0/arpg-engine/internal/host"
	"github.com/annel0/arpg-engine/internal/network"
)

func main() {
	var (
		addr     = flag.String("addr", "localhost:7777", "KCP server address")
		compress = flag.Bool("compress", false, "Compress outgoing frames")
		moves    = flag.String("moves", "", "Directions to send one per second (comma-separated)")
		frames   = flag.Int("frames", 0, "Exit after N snapshots (0 - until Ctrl+C)")
	)
	flag.Parse()

	fmt.Println("=== КЛИЕНТ ПОТОКА СНИМКОВ ===")

	client, err := network.Dial(*addr, network.ChannelConfig{Compress: *compress})
	if err != nil {
		log.Fatalf("❌ Ошибка подключения: %v", err)
	}
	defer client.Close()

	// сервер узнаёт о клиенте по первому пакету
	if err := client.Ping(); err != nil {
		log.Fatalf("❌ Ошибка отправки: %v", err)
	}
	fmt.Printf("✅ Подключен к %s\n", *addr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go sendLoop(client, parseDirections(*moves), done)

	received := 0
	for {
		select {
		case <-sig:
			close(done)
			fmt.Printf("\n📊 Получено снимков: %d\n", received)
			return
		default:
		}

		msg, err := client.Receive(time.Second)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			close(done)
			log.Fatalf("❌ Ошибка чтения: %v", err)
		}

		switch msg.Type {
		case network.MessageSnapshot:
			snap, err := network.DecodeSnapshot(msg)
			if err != nil {
				log.Printf("❌ Ошибка разбора снимка: %v", err)
				continue
			}
			received++
			fmt.Printf("📥 #%d %s hp=%d/%d mana=%d/%d lvl=%d npc=%d entities=%d\n",
				snap.Frame, snap.MapName,
				snap.Player.Health, snap.Player.MaxHealth,
				snap.Player.Mana, snap.Player.MaxMana,
				snap.Player.Level, snap.NPCsAlive, len(snap.Entities))
			if *frames > 0 && received >= *frames {
				close(done)
				return
			}
		case network.MessageError:
			fmt.Printf("⚠️ Отказ: %s\n", msg.Error)
		}
	}
}

// sendLoop раз в секунду шлёт следующее движение или ping
func sendLoop(client *network.Client, directions []string, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		var err error
		if i < len(directions) {
			fmt.Printf("📤 move %s\n", directions[i])
			err = client.SendIntent(host.Intent{Kind: host.IntentMove, Direction: directions[i]})
			i++
		} else {
			err = client.Ping()
		}
		if err != nil {
			log.Printf("❌ Ошибка отправки: %v", err)
			return
		}
	}
}

func parseDirections(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if d := strings.TrimSpace(part); d != "" {
			out = append(out, d)
		}
	}
	return out
}
