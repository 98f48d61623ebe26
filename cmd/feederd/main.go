package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"feeder/internal/button"
	"feeder/internal/display"
	"feeder/internal/feeder"
	"feeder/internal/ipc"
	"feeder/internal/servo"
	"feeder/internal/voice"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	socket := cli.String("socket", ipc.DefaultSocket, "Voice event socket path")
	i2cBus := cli.String("i2c-bus", "1", "I2C bus with the LED matrix")
	i2cAddr := cli.Uint16("i2c-addr", display.Addr, "Display slave address")
	buttonPath := cli.String("button", "/sys/class/gpio/gpio27/value", "Button value file")
	exportPath := cli.String("gpio-export", "/sys/class/gpio/export", "GPIO export file")
	buttonPin := cli.Int("button-pin", 27, "Button GPIO number")
	pwmDir := cli.String("pwm", "/sys/class/pwm/pwmchip3/pwm1", "Servo pwm channel directory")
	tick := cli.Duration("tick", 100*time.Millisecond, "Status render period")
	feedback := cli.Duration("feedback", 5*time.Second, "Feedback frame duration")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	if _, err := host.Init(); err != nil {
		log.Error("Failed to init host drivers", "err", err)
		os.Exit(1)
	}

	bus, err := i2creg.Open(*i2cBus)
	if err != nil {
		log.Error("Failed to open i2c bus", "bus", *i2cBus, "err", err)
		os.Exit(1)
	}
	defer bus.Close()

	disp := display.New(&display.I2CWriter{
		Dev: &i2c.Dev{Bus: bus, Addr: *i2cAddr},
	})
	disp.Init()
	disp.Clear()

	log.Debug("Loaded display")

	if err := button.Export(*exportPath, *buttonPin); err != nil {
		log.Error("Failed to export button gpio", "pin", *buttonPin, "err", err)
		os.Exit(1)
	}

	deb := button.New(&button.SysfsLine{Path: *buttonPath}, button.Config{})
	seq := servo.New(&servo.SysfsPWM{Dir: *pwmDir}, disp, servo.Config{})
	ctrl := feeder.New(disp, seq, deb.Presses(), feeder.Config{
		Tick:     *tick,
		Feedback: *feedback,
	})

	log.Debug("Loaded controller")

	cb := voice.Callbacks{
		WakeWord: func() {
			log.Info("[wake word]")
		},
		Inference: func(inf voice.Inference) {
			log.Info("Inference",
				"understood", inf.Understood,
				"intent", inf.Intent,
				"slots", inf.Slots)
			if !inf.Understood {
				return
			}
			if !ctrl.RequestRun() {
				log.Debug("Release already running, inference ignored")
			}
		},
	}

	ln, err := ipc.Serve(*socket, func(ev voice.Event) {
		voice.Dispatch(cb, ev)
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}
	defer ln.Close()

	log.Info("Boot up - successful")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		deb.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		ctrl.Run(ctx)
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	// Join the workers before dropping the bus handle; a run still
	// holding the pwm files finishes its sequence first.
	wg.Wait()
	seq.Wait()
}
