package sensor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"go.bug.st/serial"

	"github.com/vovakirdan/gyroball/internal/motion"
	"github.com/vovakirdan/gyroball/internal/sim"
)

// DefaultBaud is used when no baud rate is configured.
const DefaultBaud = 115200

// PortOpener opens a serial port. Tests substitute an in-memory pipe.
type PortOpener func(name string, mode *serial.Mode) (io.ReadCloser, error)

func openSerialPort(name string, mode *serial.Mode) (io.ReadCloser, error) {
	return serial.Open(name, mode)
}

// Serial reads "x,y" or "x y" lines from a gyroscope on a serial port.
// Lines that do not parse mark the sensor Unreliable until the next good one.
type Serial struct {
	port   string
	baud   int
	open   PortOpener
	logger *log.Logger
}

// NewSerial creates a serial source for port at baud.
func NewSerial(port string, baud int, logger *log.Logger) *Serial {
	if baud <= 0 {
		baud = DefaultBaud
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Serial{port: port, baud: baud, open: openSerialPort, logger: logger}
}

// WithOpener returns a copy of s that opens ports with open.
func (s *Serial) WithOpener(open PortOpener) *Serial {
	c := *s
	c.open = open
	return &c
}

// Name implements sim.Source.
func (s *Serial) Name() string { return NameSerial }

// Mode returns the serial settings used to open the port.
func (s *Serial) Mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: s.baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Run reads the port until ctx is cancelled or the port reaches EOF.
func (s *Serial) Run(ctx context.Context, sink sim.Sink) error {
	port, err := s.open(s.port, s.Mode())
	if err != nil {
		return fmt.Errorf("sensor: open %s: %w", s.port, err)
	}
	s.logger.Info("serial port opened", "port", s.port, "baud", s.baud)

	// Closing the port unblocks the scanner on cancellation.
	stop := context.AfterFunc(ctx, func() { _ = port.Close() })
	defer func() {
		if stop() {
			_ = port.Close()
		}
	}()

	accuracy := motion.AccuracyUnknown
	setAccuracy := func(a motion.Accuracy) {
		if a != accuracy {
			accuracy = a
			sink.SetAccuracy(a)
		}
	}

	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		x, y, err := ParseLine(line)
		if err != nil {
			setAccuracy(motion.AccuracyUnreliable)
			s.logger.Warn("unparseable serial line", "line", line, "err", err)
			continue
		}
		setAccuracy(motion.AccuracyHigh)
		_ = sink.OnSample(x, y)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("sensor: read %s: %w", s.port, err)
	}
	return nil
}

// ParseLine parses "x,y" or "x y" into an angular-rate pair.
func ParseLine(line string) (x, y float64, err error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want 2 values, got %d", len(fields))
	}
	if x, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return 0, 0, err
	}
	if y, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
