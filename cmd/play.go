package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nickysemenza/gola"
	"github.com/robmorgan/conductor/conductor"
	"github.com/robmorgan/conductor/config"
	"github.com/robmorgan/conductor/device"
	"github.com/robmorgan/conductor/effect"
	"github.com/robmorgan/conductor/lighting"
	"github.com/robmorgan/conductor/logger"
	"github.com/robmorgan/conductor/oscbeat"
	"github.com/robmorgan/conductor/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/utils/clock"
)

var (
	headless bool
	logFile  string
)

// playCmd starts the music
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the soundtrack",
	Long: `Play the configured frames. The terminal view maps keys to requests; with --headless,
commands are read from standard input instead (t: next frame, d: end jingle, v <level>: volume,
s: status, q: quit).`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolVar(&headless, "headless", false, "read commands from stdin instead of showing the terminal view")
	playCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the terminal view is shown")
	playCmd.Flags().String("device", "", "output device (virtual, speaker)")
	playCmd.Flags().String("file", "", "music file for the speaker device")
	playCmd.Flags().Float64("bpm", 0, "tempo in beats per minute")
}

// runPlay is the composition root: it builds the device, the conductor and everything that
// follows its beat, then hands control to the terminal view or the stdin reader.
func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyPlayFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger := logger.GetProjectLogger()

	if !headless {
		if err := redirectLogs(); err != nil {
			return err
		}
	}

	dev, err := openDevice(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s device: %w", cfg.Engine.Device, err)
	}
	defer dev.Close()

	c, err := conductor.New(cfg.ConductorOptions(), dev)
	if err != nil {
		return fmt.Errorf("failed to start conductor: %w", err)
	}
	c.SetVolume(cfg.Music.Volume)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	wg := sync.WaitGroup{}

	pulse := effect.NewPulse()
	observers := make([]conductor.Observer, 0)

	if cfg.OSC.Enabled {
		logger.WithFields(logrus.Fields{"host": cfg.OSC.Host, "port": cfg.OSC.Port}).Info("Broadcasting beat over OSC")
		observers = append(observers, oscbeat.NewPublisher(cfg.OSC.Host, cfg.OSC.Port))
	}

	if cfg.Lighting.Enabled {
		logger.Info("Connecting to OLA...")
		client, err := gola.New(cfg.Lighting.OLAAddress)
		if err != nil {
			logger.Errorf("could not connect to OLA: %v", err)
		} else {
			state := lighting.NewDMXState()
			observers = append(observers, lighting.NewBeatLights(cfg.Lighting.Fixtures, pulse, state))

			wg.Add(1)
			go lighting.SendDMXWorker(ctx, client, clock.RealClock{}, cfg.Lighting.TickRate, state, &wg)
		}
	}

	if headless {
		observers = append(observers, newStatusPrinter(cmd.OutOrStdout(), pulse))
	}

	runner := conductor.NewRunner(c, clock.RealClock{}, cfg.Engine.TickRate, observers...)
	runner.ProcessForever(ctx, &wg)

	if headless {
		err = runHeadless(ctx, c, cmd.InOrStdin(), cmd.OutOrStdout())
	} else {
		err = tui.Run(c, pulse)
	}

	cancel()
	wg.Wait()
	logger.Info("Shutting down conductor")
	return err
}

func applyPlayFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Engine.Device, _ = flags.GetString("device")
	}
	if flags.Changed("file") {
		cfg.Music.File, _ = flags.GetString("file")
	}
	if flags.Changed("bpm") {
		cfg.Music.BPM, _ = flags.GetFloat64("bpm")
	}
}

// redirectLogs keeps log lines from drawing over the terminal view.
func redirectLogs() error {
	if logFile == "" {
		logger.SetOutput(io.Discard)
		return nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return nil
}

func openDevice(cfg *config.Config) (device.Device, error) {
	switch cfg.Engine.Device {
	case config.DeviceSpeaker:
		buf, err := device.LoadBuffer(cfg.Music.File)
		if err != nil {
			return nil, err
		}
		d := device.NewBeep(buf)
		if err := d.Start(cfg.Engine.Buffer); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return device.NewVirtual(clock.RealClock{}, cfg.Engine.Length), nil
	}
}

// runHeadless applies stdin commands until q, end of input, a signal or ctx is done.
func runHeadless(ctx context.Context, c *conductor.Conductor, in io.Reader, out io.Writer) error {
	logger := logger.GetProjectLogger()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	lines := readLines(in)
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-quit:
			fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
			return nil
		case line, ok := <-lines:
			if !ok {
				// stdin closed: keep playing until a signal arrives
				lines = nil
				continue
			}
			done, err := handleCommand(c, line, out)
			if err != nil {
				logger.WithField("command", line).WithError(err).Warn("Command failed")
				fmt.Fprintln(out, err)
			}
			if done {
				return nil
			}
		}
	}
}
