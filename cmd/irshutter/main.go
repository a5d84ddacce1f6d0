package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cjeanneret/irshutter/internal/config"
	"github.com/cjeanneret/irshutter/internal/debug"
	"github.com/cjeanneret/irshutter/internal/hw/camera"
	"github.com/cjeanneret/irshutter/internal/hw/carrier"
	"github.com/cjeanneret/irshutter/internal/hw/gpio"
	"github.com/cjeanneret/irshutter/internal/ir/probe"
	"github.com/cjeanneret/irshutter/internal/ir/protocol"
)

func main() {
	// CLI flags
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	brandName := flag.String("brand", "", "override camera brand (sony, nikon, canon, canon_wldc100, pentax, olympus, minolta)")
	pin := flag.Int("pin", -1, "override IR LED pin (BCM number)")
	commandName := flag.String("command", "shutter", "command to send: shutter, delayed, focus, zoomin, zoomout, video")
	pct := flag.Int("pct", 100, "zoom amount in percent (0-100)")
	analyzeOnly := flag.Bool("analyze", false, "capture the waveform on a virtual pin and print its measurements instead of transmitting")
	list := flag.Bool("list", false, "list brands and the commands their remotes support")
	flag.Parse()

	if *list {
		listBrands(os.Stdout)
		return
	}

	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("invalid config path: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate CLI overrides (-1 pin and empty brand mean "use config")
	if err := validateCLIOverrides(*brandName, *pin, *pct); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyOverrides(cfg, *brandName, *pin)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel, debug.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer func() {
		if err := debug.Close(); err != nil {
			log.Printf("closing log file failed: %v", err)
		}
	}()
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	brand, err := cfg.Brand()
	if err != nil {
		log.Fatalf("camera brand: %v", err)
	}
	id, err := protocol.ParseCommand(*commandName)
	if err != nil {
		log.Fatalf("command: %v", err)
	}
	if !protocol.Supports(brand, id) {
		log.Fatalf("%v remote has no %v command (supported: %s)", brand, id, commandList(brand))
	}

	if *analyzeOnly {
		report, err := analyze(cfg, brand, id, *pct)
		if err != nil {
			log.Fatalf("analyze failed: %v", err)
		}
		fmt.Print(report)
		return
	}

	if err := transmit(cfg, brand, id, *pct); err != nil {
		debug.Error(err)
		log.Fatalf("transmit failed: %v", err)
	}
}

// transmit sends one command on the configured pin.
func transmit(cfg *config.Config, brand protocol.Brand, id protocol.CommandID, pct int) error {
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	debug.Step(1, "Initializing GPIO driver")
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		return fmt.Errorf("init GPIO: %w", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}()

	debug.Step(2, "Initializing carrier backend")
	debug.PrintStruct("Transmitter config", cfg.Transmitter)
	backend, err := carrier.NewBackend(cfg.Transmitter.Backend, gpioDriver, carrier.NewSpinClock(), cfg.CPU())
	if err != nil {
		return err
	}

	debug.Step(3, "Initializing camera")
	cam, err := camera.New(backend, brand, cfg.Camera.Pin)
	if err != nil {
		return fmt.Errorf("init camera: %w", err)
	}

	debug.Step(4, "Sending "+id.String())
	return runCommand(cam, id, pct)
}

// analyze runs the command against a virtual pin and measures the result.
func analyze(cfg *config.Config, brand protocol.Brand, id protocol.CommandID, pct int) (probe.Report, error) {
	p := probe.New()
	backend, err := carrier.NewBackend(cfg.Transmitter.Backend, p, p, -1)
	if err != nil {
		return probe.Report{}, err
	}
	cam, err := camera.New(backend, brand, cfg.Camera.Pin)
	if err != nil {
		return probe.Report{}, err
	}
	if err := runCommand(cam, id, pct); err != nil {
		return probe.Report{}, err
	}
	return probe.Analyze(p.Edges(cfg.Camera.Pin)), nil
}

// runCommand dispatches a command chosen at runtime onto the camera's
// capability interfaces.
func runCommand(cam camera.Camera, id protocol.CommandID, pct int) error {
	switch id {
	case protocol.Shutter:
		return cam.ShutterNow()
	case protocol.ShutterDelayed:
		if c, ok := cam.(camera.DelayedShutter); ok {
			return c.ShutterDelayed()
		}
	case protocol.Focus:
		if c, ok := cam.(camera.Focuser); ok {
			return c.ToggleFocus()
		}
	case protocol.ZoomIn:
		if c, ok := cam.(camera.Zoomer); ok {
			return c.ZoomIn(pct)
		}
	case protocol.ZoomOut:
		if c, ok := cam.(camera.Zoomer); ok {
			return c.ZoomOut(pct)
		}
	case protocol.Video:
		if c, ok := cam.(camera.VideoToggler); ok {
			return c.ToggleVideo()
		}
	}
	return fmt.Errorf("%v remote has no %v command", cam.Brand(), id)
}

// validateCLIOverrides checks CLI values that are not "use config".
func validateCLIOverrides(brand string, pin, pct int) error {
	if brand != "" {
		if _, err := protocol.ParseBrand(brand); err != nil {
			return err
		}
	}
	if pin < -1 {
		return fmt.Errorf("pin must be >= 0, got %d", pin)
	}
	if pct < 0 || pct > 100 {
		return fmt.Errorf("pct must be between 0 and 100, got %d", pct)
	}
	return nil
}

// applyOverrides mutates cfg with overrides. Only set values are applied.
func applyOverrides(cfg *config.Config, brand string, pin int) {
	if brand != "" {
		cfg.Camera.Brand = brand
	}
	if pin >= 0 {
		cfg.Camera.Pin = pin
	}
}

func commandList(b protocol.Brand) string {
	spec, err := protocol.Lookup(b)
	if err != nil {
		return ""
	}
	names := make([]string, 0, 6)
	for _, id := range spec.Commands() {
		names = append(names, id.String())
	}
	return strings.Join(names, ", ")
}

func listBrands(w io.Writer) {
	for _, b := range protocol.Brands() {
		spec, err := protocol.Lookup(b)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%-14s %5.1f kHz  %s\n", b, float64(spec.CarrierHz)/1000, commandList(b))
	}
}
