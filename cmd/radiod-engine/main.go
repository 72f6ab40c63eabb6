// Command radiod-engine runs the multichannel control plane: it listens
// for command packets on a status/command multicast group, arbitrates
// them against its live channel set, and periodically broadcasts status.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwsl/radiod-engine/internal/config"
	"github.com/cwsl/radiod-engine/internal/env"
	"github.com/cwsl/radiod-engine/internal/manager"
	"github.com/cwsl/radiod-engine/internal/mcast"
	"github.com/cwsl/radiod-engine/internal/metrics"
	"github.com/cwsl/radiod-engine/internal/preset"
	"github.com/cwsl/radiod-engine/internal/wire"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML engine config file (the flags below override its values)")
	presetsPath := flag.String("presets", "", "path to a YAML preset dictionary file (PRESET commands error if unset)")
	group := flag.String("group", "", "status/command multicast group (host:port, derived if unresolvable)")
	blocktime := flag.Float64("blocktime", 0, "front-end block duration, seconds")
	overlap := flag.Float64("overlap", 0, "front-end FFT overlap factor")
	verbose := flag.Int("verbose", -1, "diagnostic log verbosity")
	metricsAddr := flag.String("metrics-listen", "", "Prometheus metrics listen address")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *group != "" {
		cfg.Group = *group
	}
	if *blocktime != 0 {
		cfg.Blocktime = *blocktime
	}
	if *overlap != 0 {
		cfg.Overlap = *overlap
	}
	if *verbose >= 0 {
		cfg.Verbose = *verbose
	}
	if *metricsAddr != "" {
		cfg.MetricsListen = *metricsAddr
	}

	instance := uuid.New()
	log.Printf("radiod-engine starting, instance %s, group %s", instance, cfg.Group)

	e := env.New(cfg.Blocktime, cfg.Overlap, cfg.Verbose)
	m := metrics.New()
	mgr := manager.New(e, m)
	dedup := mcast.NewDedup()
	dict := preset.Dictionary{}
	if *presetsPath != "" {
		loaded, err := preset.LoadDictionary(*presetsPath)
		if err != nil {
			log.Fatalf("load presets: %v", err)
		}
		dict = loaded
	}

	addr, err := mcast.ResolveMulticastAddr(cfg.Group)
	if err != nil {
		log.Fatalf("resolve group: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sock, err := mcast.Listen(ctx, addr, nil)
	if err != nil {
		log.Fatalf("listen on %s: %v", addr, err)
	}
	defer sock.Close()

	listener := mcast.NewListener(sock, func(msg wire.Message, from *net.UDPAddr) {
		handleMessage(mgr, m, dedup, dict, listener, msg, from)
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("radiod-engine: shutting down")
		cancel()
	}()

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(cfg.MetricsListen, nil); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server: %v", err)
		}
	}()

	go broadcastLoop(ctx, mgr, listener)

	if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("radiod-engine: listener stopped: %v", err)
	}
}

// handleMessage dispatches a decoded packet: a command addressed to a live
// channel is queued onto its pending-command slot and immediately applied,
// and then draws an immediate status reply echoing its command tag, whether
// or not it carried any parameter fields. A command addressed to the
// broadcast SSRC draws one reply per live channel and changes no
// parameters. Every reply is subject to the per-SSRC dedup window.
func handleMessage(mgr *manager.Manager, m *metrics.Metrics, dedup *mcast.Dedup, dict preset.Dictionary, listener *mcast.Listener, msg wire.Message, from *net.UDPAddr) {
	if msg.Kind != wire.Cmd {
		return
	}
	m.CommandReceived()

	ssrc, ok := wire.OutputSSRCOf(msg.Fields)
	if !ok {
		return
	}

	if ssrc == wire.BroadcastSSRC {
		tag, _ := wire.CommandTagOf(msg.Fields)
		for _, c := range mgr.All() {
			if !dedup.Allow(c.SSRC, time.Now()) {
				m.DiscoverySuppressed()
				continue
			}
			body := append([]byte{byte(wire.Status)}, manager.EncodeStatus(c, tag)...)
			if err := listener.SendTo(body, from); err != nil {
				log.Printf("radiod-engine: discovery reply: %v", err)
				continue
			}
			m.StatusSent("discovery")
		}
		return
	}

	start := time.Now()
	mgr.Dispatch(msg)
	applied, err := mgr.ApplyPending(ssrc, dict)
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
		log.Printf("radiod-engine: %v", err)
	}
	if applied {
		m.CommandApplied(outcome, time.Since(start).Seconds())
	}
	if c, ok := mgr.Get(ssrc); ok && c.ConsumeRestartNeeded() {
		log.Printf("radiod-engine: channel %#x restarted (structural parameter changed)", ssrc)
	}

	if !dedup.Allow(ssrc, time.Now()) {
		m.DiscoverySuppressed()
		return
	}

	c, ok := mgr.Get(ssrc)
	if !ok {
		return
	}
	if err := mgr.PollSpectrum(ssrc); err != nil {
		log.Printf("radiod-engine: spectrum poll: %v", err)
	}
	tag, _ := wire.CommandTagOf(msg.Fields)
	body := append([]byte{byte(wire.Status)}, manager.EncodeStatus(c, tag)...)
	if err := listener.SendTo(body, from); err != nil {
		log.Printf("radiod-engine: status reply: %v", err)
		return
	}
	m.StatusSent("poll")
}

// broadcastLoop periodically sends every live channel's status to the
// group unsolicited, once per jittered interval (one tick shared by all
// channels), matching the IGMP-style spread the original poll timing uses.
func broadcastLoop(ctx context.Context, mgr *manager.Manager, listener *mcast.Listener) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(mcast.JitteredInterval()):
		}
		for _, c := range mgr.All() {
			if err := mgr.PollSpectrum(c.SSRC); err != nil {
				log.Printf("radiod-engine: spectrum poll: %v", err)
			}
			body := append([]byte{byte(wire.Status)}, manager.EncodeStatus(c, 0)...)
			if err := listener.Send(body); err != nil {
				log.Printf("radiod-engine: status broadcast: %v", err)
			}
		}
	}
}
