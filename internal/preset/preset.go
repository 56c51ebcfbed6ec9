// Package preset loads bullet/zero/default-override presets from YAML
// files. This sits outside the engine's wire contract: SensorFrame and the
// Set* methods remain the only way data reaches an Engine. A preset is
// just a convenient, user-editable way to produce the values those
// methods take.
package preset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/koenig-jacob/DOPE"
)

// Bullet mirrors dope.BulletProfile with YAML tags for a human-editable
// cartridge preset file.
type Bullet struct {
	Name                string  `yaml:"name"`
	BC                  float64 `yaml:"bc"`
	DragModel           string  `yaml:"drag_model"`
	MuzzleVelocityMS    float64 `yaml:"muzzle_velocity_ms"`
	BarrelLengthIn      float64 `yaml:"barrel_length_in"`
	MVAdjustmentFactor  float64 `yaml:"mv_adjustment_factor"`
	MassGrains          float64 `yaml:"mass_grains"`
	LengthMM            float64 `yaml:"length_mm"`
	CaliberInches       float64 `yaml:"caliber_inches"`
	TwistRateInches     float64 `yaml:"twist_rate_inches"`
}

// Zero mirrors dope.ZeroConfig.
type Zero struct {
	ZeroRangeM    float64 `yaml:"zero_range_m"`
	SightHeightMM float64 `yaml:"sight_height_mm"`
}

// Defaults mirrors dope.DefaultOverrides.
type Defaults struct {
	AltitudeM        *float64 `yaml:"altitude_m"`
	PressurePa       *float64 `yaml:"pressure_pa"`
	TemperatureC     *float64 `yaml:"temperature_c"`
	HumidityFraction *float64 `yaml:"humidity_fraction"`
	WindSpeedMS      *float64 `yaml:"wind_speed_ms"`
	WindHeadingDeg   *float64 `yaml:"wind_heading_deg"`
	LatitudeDeg      *float64 `yaml:"latitude_deg"`
}

// Boresight mirrors dope.BoresightOffset.
type Boresight struct {
	VerticalMOA   float64 `yaml:"vertical_moa"`
	HorizontalMOA float64 `yaml:"horizontal_moa"`
}

// Preset is a complete, named firing-solution configuration: bullet, zero,
// optional atmospheric/wind/location defaults, and optional mechanical
// offsets.
type Preset struct {
	Bullet    Bullet     `yaml:"bullet"`
	Zero      Zero       `yaml:"zero"`
	Defaults  *Defaults  `yaml:"defaults,omitempty"`
	Boresight *Boresight `yaml:"boresight,omitempty"`
	Reticle   *Boresight `yaml:"reticle,omitempty"`
}

var dragModelNames = map[string]dope.DragModel{
	"G1": dope.DragG1, "G2": dope.DragG2, "G3": dope.DragG3, "G4": dope.DragG4,
	"G5": dope.DragG5, "G6": dope.DragG6, "G7": dope.DragG7, "G8": dope.DragG8,
}

// Load reads and validates a preset YAML file.
func Load(path string) (Preset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}

	var p Preset
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Preset{}, err
	}

	if p.Bullet.BC <= 0 {
		return Preset{}, fmt.Errorf("bullet.bc must be > 0")
	}
	if _, ok := dragModelNames[p.Bullet.DragModel]; !ok {
		return Preset{}, fmt.Errorf("bullet.drag_model must be one of G1-G8, got %q", p.Bullet.DragModel)
	}
	if p.Bullet.MuzzleVelocityMS <= 0 {
		return Preset{}, fmt.Errorf("bullet.muzzle_velocity_ms must be > 0")
	}
	if p.Bullet.BarrelLengthIn == 0 {
		p.Bullet.BarrelLengthIn = 24
	}
	if p.Bullet.MassGrains <= 0 {
		return Preset{}, fmt.Errorf("bullet.mass_grains must be > 0")
	}

	if p.Zero.ZeroRangeM <= 0 {
		return Preset{}, fmt.Errorf("zero.zero_range_m must be > 0")
	}

	return p, nil
}

// BulletProfile converts the loaded bullet preset into the engine's wire
// type.
func (p Preset) BulletProfile() dope.BulletProfile {
	return dope.BulletProfile{
		BC:                 p.Bullet.BC,
		DragModel:          dragModelNames[p.Bullet.DragModel],
		MuzzleVelocityMS:   p.Bullet.MuzzleVelocityMS,
		BarrelLengthIn:     p.Bullet.BarrelLengthIn,
		MVAdjustmentFactor: p.Bullet.MVAdjustmentFactor,
		MassGrains:         p.Bullet.MassGrains,
		LengthMM:           p.Bullet.LengthMM,
		CaliberInches:      p.Bullet.CaliberInches,
		TwistRateInches:    p.Bullet.TwistRateInches,
	}
}

// ZeroConfig converts the loaded zero preset into the engine's wire type.
func (p Preset) ZeroConfig() dope.ZeroConfig {
	return dope.ZeroConfig{
		ZeroRangeM:    p.Zero.ZeroRangeM,
		SightHeightMM: p.Zero.SightHeightMM,
	}
}

// DefaultOverrides converts the loaded defaults block, if present, into
// the engine's wire type. Each field is only marked "use" when its
// pointer was actually set in the YAML document.
func (p Preset) DefaultOverrides() (dope.DefaultOverrides, bool) {
	if p.Defaults == nil {
		return dope.DefaultOverrides{}, false
	}
	d := p.Defaults
	var out dope.DefaultOverrides
	if d.AltitudeM != nil {
		out.UseAltitude = true
		out.AltitudeM = *d.AltitudeM
	}
	if d.PressurePa != nil {
		out.UsePressure = true
		out.PressurePa = *d.PressurePa
	}
	if d.TemperatureC != nil {
		out.UseTemperature = true
		out.TemperatureC = *d.TemperatureC
	}
	if d.HumidityFraction != nil {
		out.UseHumidity = true
		out.HumidityFraction = *d.HumidityFraction
	}
	if d.WindSpeedMS != nil && d.WindHeadingDeg != nil {
		out.UseWind = true
		out.WindSpeedMS = *d.WindSpeedMS
		out.WindHeadingDeg = *d.WindHeadingDeg
	}
	if d.LatitudeDeg != nil {
		out.UseLatitude = true
		out.LatitudeDeg = *d.LatitudeDeg
	}
	return out, true
}

// ApplyTo configures an engine from this preset in one call.
func (p Preset) ApplyTo(e *dope.Engine) {
	e.SetBulletProfile(p.BulletProfile())
	e.SetZeroConfig(p.ZeroConfig())

	if overrides, ok := p.DefaultOverrides(); ok {
		e.SetDefaultOverrides(overrides)
	}
	if p.Boresight != nil {
		e.SetBoresightOffset(p.Boresight.VerticalMOA, p.Boresight.HorizontalMOA)
	}
	if p.Reticle != nil {
		e.SetReticleMechanicalOffset(p.Reticle.VerticalMOA, p.Reticle.HorizontalMOA)
	}
}
