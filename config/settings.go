package config

import "fmt"

// SystemSettings mirrors the dashboard settings forms. The values are
// display/demo configuration; only the simulation update interval has any
// behavioural effect, and even that is overridden by the engine section.
type SystemSettings struct {
	Alerts     AlertSettings      `json:"alerts"`
	Security   SecuritySettings   `json:"security"`
	Monitoring MonitoringSettings `json:"monitoring"`
	Thresholds ThresholdSettings  `json:"thresholds"`
}

// AlertSettings controls notification routing.
type AlertSettings struct {
	RealTimeNotifications bool `json:"realTimeNotifications"`
	EmailAlerts           bool `json:"emailAlerts"`
	SMSAlerts             bool `json:"smsAlerts"`
	CriticalThresholdSec  int  `json:"criticalThreshold"`
	WarningThresholdSec   int  `json:"warningThreshold"`
}

// SecuritySettings controls session policy.
type SecuritySettings struct {
	AutoLogoutMin      int  `json:"autoLogout"`
	PasswordComplexity bool `json:"passwordComplexity"`
	TwoFactorAuth      bool `json:"twoFactorAuth"`
	SessionTimeoutHrs  int  `json:"sessionTimeout"`
}

// MonitoringSettings controls data handling.
type MonitoringSettings struct {
	UpdateIntervalMS   int  `json:"updateInterval"`
	DataRetentionDays  int  `json:"dataRetention"`
	BackupFrequencyHrs int  `json:"backupFrequency"`
	GeoFencing         bool `json:"geoFencing"`
}

// ThresholdSettings holds the detection thresholds shown in the settings
// form. Detection itself is simulated; the thresholds are carried for the
// exported configuration.
type ThresholdSettings struct {
	FuelTheftLimitL       int `json:"fuelTheftLimit"`
	TiltAngleLimitDeg     int `json:"tiltAngleLimit"`
	RouteDeviationLimitM  int `json:"routeDeviationLimit"`
	SensorTimeoutLimitSec int `json:"sensorTimeoutLimit"`
}

// SetDefaults applies the shipped demo defaults.
func (s *SystemSettings) SetDefaults() {
	if s.Alerts.CriticalThresholdSec == 0 {
		s.Alerts = AlertSettings{
			RealTimeNotifications: true,
			EmailAlerts:           true,
			SMSAlerts:             false,
			CriticalThresholdSec:  15,
			WarningThresholdSec:   60,
		}
	}
	if s.Security.AutoLogoutMin == 0 {
		s.Security = SecuritySettings{
			AutoLogoutMin:      30,
			PasswordComplexity: true,
			TwoFactorAuth:      false,
			SessionTimeoutHrs:  4,
		}
	}
	if s.Monitoring.UpdateIntervalMS == 0 {
		s.Monitoring = MonitoringSettings{
			UpdateIntervalMS:   1000,
			DataRetentionDays:  30,
			BackupFrequencyHrs: 24,
			GeoFencing:         true,
		}
	}
	if s.Thresholds.FuelTheftLimitL == 0 {
		s.Thresholds = ThresholdSettings{
			FuelTheftLimitL:       10,
			TiltAngleLimitDeg:     20,
			RouteDeviationLimitM:  500,
			SensorTimeoutLimitSec: 120,
		}
	}
}

// Validate checks the ranges a settings form would enforce.
func (s SystemSettings) Validate() error {
	if s.Monitoring.UpdateIntervalMS < 0 {
		return fmt.Errorf("monitoring updateInterval must not be negative")
	}
	if s.Thresholds.TiltAngleLimitDeg < 0 || s.Thresholds.TiltAngleLimitDeg > 90 {
		return fmt.Errorf("tiltAngleLimit must be within [0,90]")
	}
	return nil
}
