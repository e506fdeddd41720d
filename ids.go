package devconf

import (
	"github.com/jacoelho/devconf/internal/setting"
	"github.com/jacoelho/devconf/internal/verify"
)

// Setting identifiers of the device schema. They are stable: the numeric
// value is reported as the payload of validation codes.
const (
	SettingUnspecified setting.ID = iota
	SettingDeviceName
	SettingUsbDetection
	SettingUsbIntervalMS
	SettingTimeEnabled
	SettingTimeIntervalMS
	SettingTimeTHP
	SettingTimeAccelGyro
	SettingTimeMagnet
	SettingTimeLight
	SettingTimeLoraPriority
	SettingTimeWriteToLora
	SettingTimeWriteToSD
	SettingLightEnabled
	SettingLightLowThreshold
	SettingLightHighThreshold
	SettingLightTHP
	SettingLightAccelGyro
	SettingLightMagnet
	SettingLightLight
	SettingLightLoraPriority
	SettingLightWriteToLora
	SettingLightWriteToSD
	SettingAccelerationEnabled
	SettingAccelerationTHP
	SettingAccelerationAccelGyro
	SettingAccelerationMagnet
	SettingAccelerationLight
	SettingAccelerationLoraPriority
	SettingAccelerationWriteToLora
	SettingAccelerationWriteToSD
	SettingOrientationEnabled
	SettingOrientationTHP
	SettingOrientationAccelGyro
	SettingOrientationMagnet
	SettingOrientationLight
	SettingOrientationLoraPriority
	SettingOrientationWriteToLora
	SettingOrientationWriteToSD
)

// Rule identifiers of the default verification rules.
const (
	RuleUnspecified verify.RuleID = iota
	RuleTriggerRequirement
	RuleTimeTrigger
	RuleLightTrigger
	RuleAccelerationTrigger
	RuleOrientationTrigger
)
