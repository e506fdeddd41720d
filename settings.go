package devconf

import (
	"math"
	"sync"

	"github.com/jacoelho/devconf/internal/bitspan"
	"github.com/jacoelho/devconf/internal/setting"
	"github.com/jacoelho/devconf/internal/tagpath"
)

var (
	rootPath       = tagpath.New("aether")
	propertiesPath = tagpath.Child(rootPath, "properties")
	usbPath        = tagpath.Child(rootPath, "usb")
	triggerPath    = tagpath.Child(rootPath, "trigger")
)

var defaultSettings = sync.OnceValue(func() []setting.Setting[Config] {
	return setting.Build(settingDefs()...)
})

// DefaultSettings returns a private copy of the device schema, ready to be
// filled by one processor.
func DefaultSettings() []setting.Setting[Config] {
	return setting.Clone(defaultSettings())
}

// triggerLayout places one trigger in both representations. The four
// sensor flags occupy sensorBit..sensorBit+3; the LoRaWAN priority takes two
// bits at priorityBit followed by the lora and sd flags.
type triggerLayout struct {
	tag       string
	firstID   setting.ID
	enableBit int
	sensorBit int
	priorBit  int
	// mirror copies the sensor flags onto the sensor hardware settings.
	mirror bool
	get    func(c *Config) *Trigger
}

type sensorFlag struct {
	tag     string
	measure func(m *Measure, on bool)
	mirror  func(c *Config, on bool)
}

var sensorFlags = [...]sensorFlag{
	{
		tag:     "thp",
		measure: func(m *Measure, on bool) { m.THP = on },
		mirror: func(c *Config, on bool) {
			c.BME280.MeasureTemperature = on
			c.BME280.MeasureHumidity = on
			c.BME280.MeasurePressure = on
		},
	},
	{
		tag:     "accel-gyro",
		measure: func(m *Measure, on bool) { m.AccelGyro = on },
		mirror: func(c *Config, on bool) {
			c.BMX160.MeasureAccelerometer = on
			c.BMX160.MeasureGyroscope = on
		},
	},
	{
		tag:     "magnet",
		measure: func(m *Measure, on bool) { m.Magnet = on },
		mirror:  func(c *Config, on bool) { c.BMX160.MeasureMagnetometer = on },
	},
	{
		tag:     "light",
		measure: func(m *Measure, on bool) { m.Light = on },
		mirror:  func(c *Config, on bool) { c.VEML6030.MeasureLight = on },
	},
}

var usbDetectionOptions = usbDetectionNames[:]

func settingDefs() []setting.Def[Config] {
	defs := []setting.Def[Config]{
		{
			ID:       SettingDeviceName,
			Path:     tagpath.Child(propertiesPath, "name"),
			Severity: setting.Optional,
			Validate: setting.Name(),
			Apply:    func(v setting.Value, c *Config) { c.DeviceName = v.Text() },
		},
		{
			ID:   SettingUsbDetection,
			Path: tagpath.Child(usbPath, "detection"),
			Bits: bitspan.MustNew(24, 2),
			Validate: setting.Dispatch(
				setting.Option(usbDetectionOptions...),
				setting.Numeric(int32(UsbOn), int32(UsbOff)),
			),
			Apply: func(v setting.Value, c *Config) { c.UsbDetection = UsbDetection(v.Int32()) },
		},
		{
			ID:       SettingUsbIntervalMS,
			Path:     tagpath.Child(usbPath, "detection-interval-ms"),
			Bits:     bitspan.MustNew(32, 32),
			Validate: setting.Numeric[uint32](1_000, math.MaxUint32),
			Apply:    func(v setting.Value, c *Config) { c.UsbIntervalMS = v.Uint32() },
		},
	}

	defs = append(defs, triggerDefs(triggerLayout{
		tag:       "time",
		firstID:   SettingTimeEnabled,
		enableBit: 26,
		sensorBit: 8,
		priorBit:  128,
		mirror:    true,
		get:       func(c *Config) *Trigger { return &c.Trigger.Time.Trigger },
	}, setting.Def[Config]{
		Path:     tagpath.New("interval-ms"),
		Bits:     bitspan.MustNew(64, 32),
		Validate: setting.Numeric[uint32](1_000, math.MaxUint32),
		Apply:    func(v setting.Value, c *Config) { c.Trigger.Time.IntervalMS = v.Uint32() },
	})...)

	defs = append(defs, triggerDefs(triggerLayout{
		tag:       "light",
		firstID:   SettingLightEnabled,
		enableBit: 27,
		sensorBit: 12,
		priorBit:  132,
		get:       func(c *Config) *Trigger { return &c.Trigger.Light.Trigger },
	}, setting.Def[Config]{
		Path:     tagpath.New("low-threshold"),
		Bits:     bitspan.MustNew(112, 16),
		Validate: setting.Numeric[uint16](0, math.MaxUint16),
		Apply:    func(v setting.Value, c *Config) { c.Trigger.Light.LowThreshold = v.Uint16() },
	}, setting.Def[Config]{
		Path:     tagpath.New("high-threshold"),
		Bits:     bitspan.MustNew(96, 16),
		Validate: setting.Numeric[uint16](0, math.MaxUint16),
		Apply:    func(v setting.Value, c *Config) { c.Trigger.Light.HighThreshold = v.Uint16() },
	})...)

	defs = append(defs, triggerDefs(triggerLayout{
		tag:       "acceleration",
		firstID:   SettingAccelerationEnabled,
		enableBit: 28,
		sensorBit: 16,
		priorBit:  136,
		get:       func(c *Config) *Trigger { return &c.Trigger.Acceleration },
	})...)

	defs = append(defs, triggerDefs(triggerLayout{
		tag:       "orientation",
		firstID:   SettingOrientationEnabled,
		enableBit: 29,
		sensorBit: 20,
		priorBit:  140,
		get:       func(c *Config) *Trigger { return &c.Trigger.Orientation },
	})...)

	return defs
}

// triggerDefs returns the settings of one trigger in identifier order:
// enabled, the trigger specific extras (paths relative to the trigger), the
// four sensor flags, then the write-to group.
func triggerDefs(l triggerLayout, extras ...setting.Def[Config]) []setting.Def[Config] {
	base := tagpath.Child(triggerPath, l.tag)
	sensors := tagpath.Child(base, "activate-sensors")
	writeTo := tagpath.Child(base, "write-to")
	get := l.get

	id := l.firstID
	next := func() setting.ID {
		out := id
		id++
		return out
	}

	defs := []setting.Def[Config]{{
		ID:       next(),
		Path:     tagpath.Child(base, "enabled"),
		Bits:     bitspan.Bit(l.enableBit),
		Validate: setting.Flag(),
		Apply:    func(v setting.Value, c *Config) { get(c).Enable = v.Bool() },
	}}
	for _, d := range extras {
		d.ID = next()
		d.Path = tagpath.Join(base, d.Path)
		defs = append(defs, d)
	}
	for i, f := range sensorFlags {
		mirror := l.mirror
		defs = append(defs, setting.Def[Config]{
			ID:       next(),
			Path:     tagpath.Child(sensors, f.tag),
			Bits:     bitspan.Bit(l.sensorBit + i),
			Validate: setting.Flag(),
			Apply: func(v setting.Value, c *Config) {
				on := get(c).Enable && v.Bool()
				f.measure(&get(c).Measure, on)
				if mirror {
					f.mirror(c, on)
				}
			},
		})
	}
	return append(defs,
		setting.Def[Config]{
			ID:       next(),
			Path:     tagpath.Child(writeTo, "lorawan-priority"),
			Bits:     bitspan.MustNew(l.priorBit, 2),
			Validate: setting.Numeric[int8](0, 3),
			Apply:    func(v setting.Value, c *Config) { get(c).LorawanPriority = v.Int8() },
		},
		setting.Def[Config]{
			ID:       next(),
			Path:     tagpath.Child(writeTo, "lora"),
			Bits:     bitspan.Bit(l.priorBit + 2),
			Validate: setting.Flag(),
			Apply:    func(v setting.Value, c *Config) { get(c).WriteTo.Lora = v.Bool() },
		},
		setting.Def[Config]{
			ID:       next(),
			Path:     tagpath.Child(writeTo, "sd"),
			Bits:     bitspan.Bit(l.priorBit + 3),
			Validate: setting.Flag(),
			Apply:    func(v setting.Value, c *Config) { get(c).WriteTo.SD = v.Bool() },
		},
	)
}
