// Command notedancerd runs the real-time music analysis engine: it pulls
// audio frames from a source, runs them through the DSP pipeline, and
// streams feature packets over UDP while listening for parameter updates.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/austinkregel/notedancerd/internal/audio"
	"github.com/austinkregel/notedancerd/internal/config"
	"github.com/austinkregel/notedancerd/internal/monitor"
	"github.com/austinkregel/notedancerd/internal/params"
	"github.com/austinkregel/notedancerd/internal/pipeline"
	"github.com/austinkregel/notedancerd/internal/transport"
)

// Flags holds the CLI-level overrides, mirroring the teacher's musicd
// flag set: a config directory, a verbosity toggle, and here a fixture
// path standing in for the out-of-scope capture device layer.
type Flags struct {
	ConfigDir string
	Fixture   string
	Audible   bool
	Verbose   bool
}

func parseFlags() Flags {
	var f Flags
	flag.StringVar(&f.ConfigDir, "config-dir", defaultConfigDir(), "directory containing config.json")
	flag.StringVar(&f.Fixture, "fixture", "", "path to a fixture audio file to analyze (Monitor Source)")
	flag.BoolVar(&f.Audible, "audible", false, "play the fixture audibly while analyzing it")
	flag.BoolVar(&f.Verbose, "verbose", false, "verbose logging (no component reads this flag; log output is unchanged)")
	flag.Parse()
	return f
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notedancerd"
	}
	return home + "/.config/notedancerd"
}

func main() {
	flags := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("[MAIN] shutdown signal received")
		cancel()
	}()

	if err := run(ctx, flags); err != nil {
		log.Fatalf("[MAIN] %v", err)
	}
}

func run(ctx context.Context, flags Flags) error {
	if flags.Fixture == "" {
		return fmt.Errorf("a -fixture path is required (live capture device is out of scope for this engine)")
	}

	mgr := config.NewManager(flags.ConfigDir)
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	store := params.NewStore()
	store.Set("low_gain", cfg.AGC.LowGain)
	store.Set("mid_gain", cfg.AGC.MidGain)
	store.Set("high_gain", cfg.AGC.HighGain)
	store.Set("flux_sens", cfg.AGC.FluxSens)
	store.Set("norm_mode", cfg.AGC.NormMode)

	source, err := audio.NewMonitorSource(ctx, flags.Fixture, cfg.Audio.SampleRate, cfg.Audio.Chunk, flags.Audible)
	if err != nil {
		return fmt.Errorf("open monitor source: %w", err)
	}
	defer source.Close()

	tx, err := transport.NewTransmitter(cfg.Network.PacketAddr)
	if err != nil {
		return fmt.Errorf("open transmitter: %w", err)
	}
	defer tx.Close()

	listener, err := transport.NewListener(cfg.Network.CommandAddr, store)
	if err != nil {
		return fmt.Errorf("open command listener: %w", err)
	}
	defer listener.Close()

	summaryInterval := time.Duration(cfg.Monitor.SummaryIntervalSeconds * float64(time.Second))
	mon := monitor.New(summaryInterval)

	driver := pipeline.New(pipeline.Config{
		SampleRate:   cfg.Audio.SampleRate,
		Chunk:        cfg.Audio.Chunk,
		WindowChunks: cfg.Audio.WindowChunks,
	}, source, store, tx, mon)

	listener.SetCommandHook(driver.NotifyCommandsApplied)

	go listener.Run(ctx)

	log.Printf("[MAIN] notedancerd running: fixture=%s packets->%s commands<-%s",
		flags.Fixture, cfg.Network.PacketAddr, cfg.Network.CommandAddr)

	return driver.Run(ctx)
}
