// Package main provides a read-only terminal scoreboard. It polls the
// relay for the latest session snapshot and redraws whenever one arrives.
// It never writes anything back.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arenagm/companion/internal/cloudsync"
	"github.com/arenagm/companion/internal/config"
	"github.com/arenagm/companion/internal/game"
)

func main() {
	// .env is optional and only read if present in the working directory.
	_ = godotenv.Load()
	cfg, _ := config.LoadConfig()
	cfg = config.ApplyEnvOverrides(cfg)

	relayURL := flag.String("relay", cfg.RelayURL, "relay base URL")
	interval := flag.Int("interval", cfg.PollIntervalSec, "poll interval in seconds")
	flag.Parse()

	if *relayURL == "" {
		log.Fatal("relay URL is required (use -relay or ARENAGM_RELAY_URL)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	puller := cloudsync.NewPuller(*relayURL, render,
		cloudsync.WithPollInterval(time.Duration(*interval)*time.Second),
	)

	go puller.Run(ctx)

	log.Printf("Watching %s (poll every %ds)", *relayURL, *interval)
	<-done
	cancel()
}

// render draws a full scoreboard to stdout. A nil session means the relay
// has nothing yet.
func render(s *game.Session) {
	if s == nil {
		fmt.Println("Waiting for a session...")
		return
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\n=== %s ===\n", s.Name)
	fmt.Fprintf(&b, "Updated: %s\n", s.UpdatedAt.Local().Format("15:04:05"))

	if ev := s.CurrentEvent(); ev != nil {
		fmt.Fprintf(&b, "Event: %s  [%s, round %d]\n", ev.Title, ev.Phase, ev.RoundNumber)
	}
	fmt.Fprintf(&b, "Standing: %d/%d commoners\n", len(s.LivingCommoners()), len(s.AllCommoners()))

	// Standings, highest score first
	players := make([]game.Player, len(s.Players))
	copy(players, s.Players)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].ScoreTotal > players[j].ScoreTotal
	})

	for rank, p := range players {
		fmt.Fprintf(&b, "\n%d. %s  (%d pts)\n", rank+1, p.Name, p.ScoreTotal)
		for _, c := range p.Commoners {
			fmt.Fprintf(&b, "   %-28s %s  HP %d/%d", c.Name, statusBadge(c.Status), c.HPCurrent, c.HPMax)
			if len(c.Conditions) > 0 {
				fmt.Fprintf(&b, "  [%s]", strings.Join(c.Conditions, ", "))
			}
			b.WriteByte('\n')
		}
	}

	fmt.Print(b.String())
}

func statusBadge(st game.CommonerStatus) string {
	label, ok := game.StatusLabels[st]
	if !ok {
		label = string(st)
	}
	return fmt.Sprintf("%-5s", label)
}
