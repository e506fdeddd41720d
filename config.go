package devconf

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/jacoelho/devconf/internal/pipeline"
)

// DefaultDeviceName is the hex form of the unprovisioned device EUI.
const DefaultDeviceName = "0000000000000000"

// Status is raised to the surrounding system after every config cycle.
type Status = pipeline.Status

const (
	StatusOperational = pipeline.StatusOperational
	StatusFailure     = pipeline.StatusFailure
)

// UsbDetection selects how the device looks for a USB host.
type UsbDetection int32

const (
	UsbOn UsbDetection = iota
	UsbInterval
	UsbOff
)

var usbDetectionNames = [...]string{UsbOn: "on", UsbInterval: "interval", UsbOff: "off"}

func (u UsbDetection) String() string {
	if u >= 0 && int(u) < len(usbDetectionNames) {
		return usbDetectionNames[u]
	}
	return "UsbDetection(" + strconv.Itoa(int(u)) + ")"
}

// BME280 controls the temperature, humidity and pressure sensor.
type BME280 struct {
	LowPower           bool
	MeasureTemperature bool
	MeasureHumidity    bool
	MeasurePressure    bool
}

// BMX160 controls the motion sensor.
type BMX160 struct {
	LowPower             bool
	DetectShocks         bool
	MeasureAccelerometer bool
	MeasureGyroscope     bool
	MeasureMagnetometer  bool
}

// VEML6030 controls the ambient light sensor.
type VEML6030 struct {
	LowPower     bool
	MeasureLight bool
}

// Measure lists the sensor groups sampled when a trigger fires.
type Measure struct {
	THP       bool
	AccelGyro bool
	Magnet    bool
	Light     bool
}

// WriteTo lists where a trigger's samples are sent.
type WriteTo struct {
	Lora bool
	SD   bool
}

// Trigger holds the settings shared by every trigger.
type Trigger struct {
	Enable          bool
	Measure         Measure
	LorawanPriority int8
	WriteTo         WriteTo
}

// TimeTrigger fires every IntervalMS milliseconds.
type TimeTrigger struct {
	Trigger
	IntervalMS uint32
}

// LightTrigger fires when the measured lux leaves [LowThreshold, HighThreshold].
type LightTrigger struct {
	Trigger
	LowThreshold  uint16
	HighThreshold uint16
}

// Triggers groups the four triggers of the device.
type Triggers struct {
	Time         TimeTrigger
	Light        LightTrigger
	Acceleration Trigger
	Orientation  Trigger
}

// Config is the device configuration record. The zero value is not the
// default record; use DefaultConfig or Reset.
type Config struct {
	DeviceName    string
	UsbDetection  UsbDetection
	UsbIntervalMS uint32
	BME280        BME280
	BMX160        BMX160
	VEML6030      VEML6030
	Trigger       Triggers
	Status        Status
}

// DefaultConfig returns the record used when no config was accepted.
func DefaultConfig() Config {
	var c Config
	c.Reset()
	return c
}

func defaultTrigger() Trigger {
	return Trigger{
		Enable:          true,
		Measure:         Measure{THP: true, AccelGyro: true, Magnet: true, Light: true},
		LorawanPriority: 4,
		WriteTo:         WriteTo{Lora: true, SD: true},
	}
}

// Reset restores every field to its default.
func (c *Config) Reset() {
	*c = Config{
		DeviceName:    DefaultDeviceName,
		UsbDetection:  UsbInterval,
		UsbIntervalMS: 10_000,
		BME280: BME280{
			LowPower:           true,
			MeasureTemperature: true,
			MeasureHumidity:    true,
			MeasurePressure:    true,
		},
		BMX160: BMX160{
			LowPower:             true,
			MeasureAccelerometer: true,
			MeasureGyroscope:     true,
			MeasureMagnetometer:  true,
		},
		VEML6030: VEML6030{LowPower: true, MeasureLight: true},
		Trigger: Triggers{
			Time:         TimeTrigger{Trigger: defaultTrigger(), IntervalMS: 20_000},
			Light:        LightTrigger{Trigger: defaultTrigger(), LowThreshold: 1_000, HighThreshold: 20_000},
			Acceleration: defaultTrigger(),
			Orientation:  defaultTrigger(),
		},
		Status: StatusOperational,
	}
}

// SetStatus sets the status indicator.
func (c *Config) SetStatus(s Status) { c.Status = s }

// Equal reports whether c and o configure the device the same way. The
// status indicator is not compared.
func (c Config) Equal(o Config) bool {
	c.Status = o.Status
	return c == o
}

type dumpLine struct {
	depth int
	label string
	value string
}

// Dump writes the record as an indented, column-aligned listing.
func (c Config) Dump(w io.Writer) error {
	lines := []dumpLine{
		{1, "Name", c.DeviceName},
		{1, "USB settings", ""},
		{2, "detection", c.UsbDetection.String()},
		{2, "interval-ms", strconv.FormatUint(uint64(c.UsbIntervalMS), 10)},
	}
	lines = appendTrigger(lines, "Time trigger", c.Trigger.Time.Trigger,
		dumpLine{2, "interval-ms", strconv.FormatUint(uint64(c.Trigger.Time.IntervalMS), 10)})
	lines = appendTrigger(lines, "Light trigger", c.Trigger.Light.Trigger,
		dumpLine{2, "low-threshold", strconv.FormatUint(uint64(c.Trigger.Light.LowThreshold), 10)},
		dumpLine{2, "high-threshold", strconv.FormatUint(uint64(c.Trigger.Light.HighThreshold), 10)})
	lines = appendTrigger(lines, "Acceleration trigger", c.Trigger.Acceleration)
	lines = appendTrigger(lines, "Orientation trigger", c.Trigger.Orientation)

	width := 0
	for _, l := range lines {
		if l.value != "" {
			width = max(width, runewidth.StringWidth(indent(l.depth)+l.label))
		}
	}
	if _, err := fmt.Fprintf(w, "Active config contents (%s):\n", c.Status); err != nil {
		return err
	}
	for _, l := range lines {
		key := indent(l.depth) + l.label
		var err error
		if l.value == "" {
			_, err = fmt.Fprintln(w, key)
		} else {
			_, err = fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(key+":", width+1), l.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func appendTrigger(lines []dumpLine, title string, t Trigger, extra ...dumpLine) []dumpLine {
	lines = append(lines, dumpLine{1, title, ""}, dumpLine{2, "enabled", flag(t.Enable)})
	lines = append(lines, extra...)
	return append(lines,
		dumpLine{2, "Sensors", ""},
		dumpLine{3, "thp", flag(t.Measure.THP)},
		dumpLine{3, "accel-gyro", flag(t.Measure.AccelGyro)},
		dumpLine{3, "magnet", flag(t.Measure.Magnet)},
		dumpLine{3, "light", flag(t.Measure.Light)},
		dumpLine{2, "Write to", ""},
		dumpLine{3, "lorawan-priority", strconv.Itoa(int(t.LorawanPriority))},
		dumpLine{3, "lora", flag(t.WriteTo.Lora)},
		dumpLine{3, "sd", flag(t.WriteTo.SD)},
	)
}

func indent(depth int) string {
	const spaces = "        "
	return spaces[:min(2*depth, len(spaces))]
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
