// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vec3 is a coordinate triple used in YAML blocks.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Obstacle defines a static spherical hazard inside the arena.
type Obstacle struct {
	Name     string  `yaml:"name"`
	Position Vec3    `yaml:"position"`
	Radius   float64 `yaml:"radius_m"`
}

// Arena defines the bounded combat volume.
type Arena struct {
	RadiusM   float64    `yaml:"radius_m"`
	Obstacles []Obstacle `yaml:"obstacles"`
}

// Player defines the player craft as seen by the engine and the autopilot.
type Player struct {
	CollisionRadiusM    float64 `yaml:"collision_radius_m"`
	Health              int     `yaml:"health"`
	FireCooldownS       float64 `yaml:"fire_cooldown_s"`
	Accuracy            float64 `yaml:"accuracy"`
	ProjectileSpeed     float64 `yaml:"projectile_speed"`
	ProjectileLifetimeS float64 `yaml:"projectile_lifetime_s"`
	CruiseSpeed         float64 `yaml:"cruise_speed"`
}

// Archetype overrides tuning values for one adversary class. Zero values keep
// the built-in defaults for that class.
type Archetype struct {
	Class               string  `yaml:"class"`
	Health              int     `yaml:"health"`
	CruiseSpeed         float64 `yaml:"cruise_speed"`
	MaxSpeed            float64 `yaml:"max_speed"`
	MaxAccel            float64 `yaml:"max_accel"`
	FireDelayMinS       float64 `yaml:"fire_delay_min_s"`
	FireDelayMaxS       float64 `yaml:"fire_delay_max_s"`
	AimSpread           float64 `yaml:"aim_spread"`
	ProjectileSpeed     float64 `yaml:"projectile_speed"`
	ProjectileLifetimeS float64 `yaml:"projectile_lifetime_s"`
	WanderSpeedMin      float64 `yaml:"wander_speed_min"`
	WanderSpeedMax      float64 `yaml:"wander_speed_max"`
	CollisionFailChance float64 `yaml:"collision_fail_chance"`
	SilhouetteM         float64 `yaml:"silhouette_m"`
	HitboxScale         float64 `yaml:"hitbox_scale"`
	Muzzles             []Vec3  `yaml:"muzzles"`
}

// Wave defines one encounter composition in the scripted sequence.
type Wave struct {
	Fighters     int `yaml:"fighters"`
	Interceptors int `yaml:"interceptors"`
}

// Tuning collects behavior constants shared by all adversaries. The deliberate
// miss chance and the avoidance failure scale are feel knobs, not semantics.
type Tuning struct {
	ApproachDurationS    float64 `yaml:"approach_duration_s"`
	InterWaveDelayS      float64 `yaml:"inter_wave_delay_s"`
	FacingThreshold      float64 `yaml:"facing_threshold"`
	DeliberateMissChance float64 `yaml:"deliberate_miss_chance"`
	MissRadiusMin        float64 `yaml:"miss_radius_min"`
	MissRadiusMax        float64 `yaml:"miss_radius_max"`
	OrbitRadiusM         float64 `yaml:"orbit_radius_m"`
	OrbitJitterM         float64 `yaml:"orbit_jitter_m"`
	OrbitRateRadS        float64 `yaml:"orbit_rate_rad_s"`
	WanderAmplitudeM     float64 `yaml:"wander_amplitude_m"`
	AvoidRadiusM         float64 `yaml:"avoid_radius_m"`
	ObstacleBufferM      float64 `yaml:"obstacle_buffer_m"`
	AvoidStrength        float64 `yaml:"avoid_strength"`
	AvoidFailScale       float64 `yaml:"avoid_fail_scale"`
	TurnRateRadS         float64 `yaml:"turn_rate_rad_s"`
	VelocityFacingWeight float64 `yaml:"velocity_facing_weight"`
	PlayerHitMarginM     float64 `yaml:"player_hit_margin_m"`
	HitboxMargin         float64 `yaml:"hitbox_margin"`
	HitFlashS            float64 `yaml:"hit_flash_s"`
	FormationRadiusM     float64 `yaml:"formation_radius_m"`
}

// CombatConfig is the root configuration for arena, player, waves, and tuning.
type CombatConfig struct {
	Arena      Arena       `yaml:"arena"`
	Player     Player      `yaml:"player"`
	Archetypes []Archetype `yaml:"archetypes"`
	Waves      []Wave      `yaml:"waves"`
	Tuning     Tuning      `yaml:"tuning"`
}

// Default returns a complete configuration with the stock encounter script.
func Default() *CombatConfig {
	return &CombatConfig{
		Arena: Arena{
			RadiusM: 600,
			Obstacles: []Obstacle{
				{Name: "asteroid-a", Position: Vec3{X: 120, Y: 20, Z: -80}, Radius: 25},
				{Name: "asteroid-b", Position: Vec3{X: -200, Y: -40, Z: 150}, Radius: 40},
			},
		},
		Player: Player{
			CollisionRadiusM:    4,
			Health:              10,
			FireCooldownS:       0.4,
			Accuracy:            0.6,
			ProjectileSpeed:     220,
			ProjectileLifetimeS: 3,
			CruiseSpeed:         30,
		},
		Waves: []Wave{
			{Fighters: 2},
			{Fighters: 3},
			{Fighters: 2, Interceptors: 1},
			{Fighters: 3, Interceptors: 2},
		},
		Tuning: DefaultTuning(),
	}
}

// DefaultTuning returns the stock behavior constants.
func DefaultTuning() Tuning {
	return Tuning{
		ApproachDurationS:    3,
		InterWaveDelayS:      4,
		FacingThreshold:      0.78,
		DeliberateMissChance: 0.5,
		MissRadiusMin:        10,
		MissRadiusMax:        22,
		OrbitRadiusM:         90,
		OrbitJitterM:         25,
		OrbitRateRadS:        0.35,
		WanderAmplitudeM:     12,
		AvoidRadiusM:         30,
		ObstacleBufferM:      15,
		AvoidStrength:        40,
		AvoidFailScale:       0.15,
		TurnRateRadS:         2.4,
		VelocityFacingWeight: 0.7,
		PlayerHitMarginM:     1.5,
		HitboxMargin:         0.25,
		HitFlashS:            0.15,
		FormationRadiusM:     20,
	}
}

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*CombatConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check enforces constraints the CUE schema cannot express against defaults.
func (c *CombatConfig) Check() error {
	if len(c.Waves) == 0 {
		return fmt.Errorf("config: at least one wave required")
	}
	for i, w := range c.Waves {
		if w.Fighters < 0 || w.Interceptors < 0 {
			return fmt.Errorf("config: wave %d has negative counts", i+1)
		}
		if w.Fighters+w.Interceptors == 0 {
			return fmt.Errorf("config: wave %d is empty", i+1)
		}
	}
	if c.Tuning.ApproachDurationS <= 0 {
		return fmt.Errorf("config: approach_duration_s must be positive")
	}
	if c.Tuning.FacingThreshold < -1 || c.Tuning.FacingThreshold > 1 {
		return fmt.Errorf("config: facing_threshold must be within [-1,1]")
	}
	if c.Tuning.DeliberateMissChance < 0 || c.Tuning.DeliberateMissChance > 1 {
		return fmt.Errorf("config: deliberate_miss_chance must be within [0,1]")
	}
	for _, o := range c.Arena.Obstacles {
		if o.Radius <= 0 {
			return fmt.Errorf("config: obstacle %q has non-positive radius", o.Name)
		}
	}
	return nil
}
