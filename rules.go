package devconf

import (
	"github.com/jacoelho/devconf/errors"
	"github.com/jacoelho/devconf/internal/verify"
)

// DefaultRules returns the verification rules of the device: at least one
// trigger must be enabled, and every enabled trigger must send its samples
// somewhere.
func DefaultRules() []verify.Rule[Config] {
	return []verify.Rule[Config]{
		{ID: RuleTriggerRequirement, Check: anyTriggerEnabled},
		{ID: RuleTimeTrigger, Check: dataDestination(func(c *Config) *Trigger { return &c.Trigger.Time.Trigger })},
		{ID: RuleLightTrigger, Check: dataDestination(func(c *Config) *Trigger { return &c.Trigger.Light.Trigger })},
		{ID: RuleAccelerationTrigger, Check: dataDestination(func(c *Config) *Trigger { return &c.Trigger.Acceleration })},
		{ID: RuleOrientationTrigger, Check: dataDestination(func(c *Config) *Trigger { return &c.Trigger.Orientation })},
	}
}

func anyTriggerEnabled(c *Config) error {
	t := &c.Trigger
	if t.Time.Enable || t.Light.Enable || t.Acceleration.Enable || t.Orientation.Enable {
		return nil
	}
	return errors.NoTriggerEnabled
}

func dataDestination(get func(c *Config) *Trigger) func(c *Config) error {
	return func(c *Config) error {
		t := get(c)
		if !t.Enable || t.WriteTo.Lora || t.WriteTo.SD {
			return nil
		}
		return errors.NoDataDestinationEnabled
	}
}
