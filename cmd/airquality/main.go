// Command airquality polls a CCS811 gas sensor and an HDC1000 climate
// sensor over I2C, shows the readings on an SSD1306 OLED, and uploads a
// snapshot to an MQTT broker on a fixed interval. A single-threaded epoll
// event loop services all periodic work.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/sweeney/airquality-sensor/internal/display"
	"github.com/sweeney/airquality-sensor/internal/evloop"
	"github.com/sweeney/airquality-sensor/internal/gpio"
	"github.com/sweeney/airquality-sensor/internal/sensor/ccs811"
	"github.com/sweeney/airquality-sensor/internal/sensor/hdc1000"
	"github.com/sweeney/airquality-sensor/internal/station"
	"github.com/sweeney/airquality-sensor/internal/telemetry"
)

type config struct {
	i2cBus       string
	gpioChip     string
	pinButton    int
	pinDataReady int
	buttonPoll   time.Duration
	readyPoll    time.Duration
	uploadEvery  time.Duration
	broker       string
	deviceID     string
	noCloud      bool
	noDisplay    bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.i2cBus, "i2c", "", "I2C bus name (empty selects the first available)")
	flag.StringVar(&cfg.gpioChip, "gpio-chip", gpio.DefaultChip, "GPIO character device")
	flag.IntVar(&cfg.pinButton, "pin-button", gpio.DefaultPinButton, "Line offset of the push-button (active-low)")
	flag.IntVar(&cfg.pinDataReady, "pin-data-ready", gpio.DefaultPinDataReady, "Line offset of the gas sensor data-ready signal (active-low)")
	flag.DurationVar(&cfg.buttonPoll, "button-poll", 10*time.Millisecond, "Button polling interval")
	flag.DurationVar(&cfg.readyPoll, "ready-poll", 250*time.Millisecond, "Data-ready polling interval")
	flag.DurationVar(&cfg.uploadEvery, "upload-interval", 60*time.Second, "Cloud upload interval")
	flag.StringVar(&cfg.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	flag.StringVar(&cfg.deviceID, "device-id", "airquality-01", "Device identifier used in topic and client id")
	flag.BoolVar(&cfg.noCloud, "no-cloud", false, "Disable cloud upload")
	flag.BoolVar(&cfg.noDisplay, "no-display", false, "Disable the OLED display")
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init host: %w", err)
	}

	// One bus shared by both sensors and the display, standard speed.
	bus, err := i2creg.Open(cfg.i2cBus)
	if err != nil {
		return fmt.Errorf("open i2c bus: %w", err)
	}
	defer bus.Close()
	if err := bus.SetSpeed(100 * physic.KiloHertz); err != nil {
		return fmt.Errorf("set i2c bus speed: %w", err)
	}

	climate, err := hdc1000.NewI2C(bus, hdc1000.DefaultAddr)
	if err != nil {
		return fmt.Errorf("init hdc1000: %w", err)
	}
	defer climate.Halt()

	gas, err := ccs811.NewI2C(bus, ccs811.DefaultAddr)
	if err != nil {
		return fmt.Errorf("init ccs811: %w", err)
	}
	defer gas.Halt()

	var screen station.Display
	if !cfg.noDisplay {
		opts := ssd1306.DefaultOpts
		dev, err := ssd1306.NewI2C(bus, &opts)
		if err != nil {
			return fmt.Errorf("init ssd1306: %w", err)
		}
		scr := display.NewScreen(dev)
		defer scr.Halt()
		screen = scr
	}

	var publisher telemetry.Publisher
	if !cfg.noCloud {
		p, err := telemetry.NewRealPublisher(cfg.broker, cfg.deviceID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher = p
	}

	chip, err := gpio.OpenChip(cfg.gpioChip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer chip.Close()

	button, err := chip.Pin(cfg.pinButton)
	if err != nil {
		return fmt.Errorf("request button pin: %w", err)
	}
	defer button.Close()

	dataReady, err := chip.Pin(cfg.pinDataReady)
	if err != nil {
		return fmt.Errorf("request data-ready pin: %w", err)
	}
	defer dataReady.Close()

	mux, err := evloop.NewMultiplexer()
	if err != nil {
		return fmt.Errorf("init event loop: %w", err)
	}
	defer mux.Close()

	wake, err := evloop.NewWake(mux)
	if err != nil {
		return fmt.Errorf("init wake source: %w", err)
	}
	defer wake.Close()

	term := evloop.NewTerm(wake.Kick)
	st := station.New(climate, gas, screen, publisher, button, dataReady, term)

	btnTimer, err := evloop.NewTimer(mux, cfg.buttonPoll, func(t *evloop.Timer) { st.PollButton(t) })
	if err != nil {
		return fmt.Errorf("create button timer: %w", err)
	}
	defer btnTimer.Close()

	readyTimer, err := evloop.NewTimer(mux, cfg.readyPoll, func(t *evloop.Timer) { st.PollDataReady(t) })
	if err != nil {
		return fmt.Errorf("create data-ready timer: %w", err)
	}
	defer readyTimer.Close()

	if publisher != nil {
		upTimer, err := evloop.NewTimer(mux, cfg.uploadEvery, func(t *evloop.Timer) { st.Upload(t) })
		if err != nil {
			return fmt.Errorf("create upload timer: %w", err)
		}
		defer upTimer.Close()
	}

	// The watcher body only sets the token; everything else happens on the
	// loop goroutine.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		term.Request()
	}()

	if screen != nil {
		if err := st.RefreshDisplay(); err != nil {
			return fmt.Errorf("initial display draw: %w", err)
		}
	}

	log.Printf("started: button-poll=%v ready-poll=%v upload=%v cloud=%v display=%v",
		cfg.buttonPoll, cfg.readyPoll, cfg.uploadEvery, !cfg.noCloud, !cfg.noDisplay)

	err = evloop.NewLoop(mux, term, st.Maintenance).Run()
	log.Printf("shutting down")
	return err
}
