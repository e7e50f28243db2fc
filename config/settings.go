package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Settings struct {
	World  WorldSettings  `json:"world"`
	Mesh   MeshSettings   `json:"mesh"`
	Server ServerSettings `json:"server"`
}

type WorldSettings struct {
	Size             float64 `json:"size"`
	SampleResolution float64 `json:"sampleResolution"`
	Seed             int64   `json:"seed"`
	MaxElevation     float64 `json:"maxElevation"`
}

type MeshSettings struct {
	Resolution    float64 `json:"resolution"`
	SmoothRadius  float64 `json:"smoothRadius"`
	BlurPasses    int     `json:"blurPasses"`
	GaussianSigma float64 `json:"gaussianSigma"`
	Workers       int     `json:"workers"`
}

type ServerSettings struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

// Default returns the settings used when no settings file exists.
func Default() Settings {
	return Settings{
		World: WorldSettings{
			Size:             1024,
			SampleResolution: 4,
			Seed:             1337,
			MaxElevation:     120,
		},
		Mesh: MeshSettings{
			Resolution:    16,
			SmoothRadius:  64,
			BlurPasses:    2,
			GaussianSigma: 5.0,
			Workers:       0, // 0 = one worker per CPU
		},
		Server: ServerSettings{
			Port:             8080,
			UpdateIntervalMs: 250,
		},
	}
}

// Load reads settings from the given JSON file, falling back to defaults
// when the file does not exist.
func Load(path string) (Settings, error) {
	settings := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No %s found, using defaults\n", path)
			return settings, nil
		}
		return settings, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&settings); err != nil {
		return settings, fmt.Errorf("error parsing %s: %v", path, err)
	}

	fmt.Printf("Loaded settings: world %.0f, mesh resolution %.0f, smooth radius %.0f\n",
		settings.World.Size, settings.Mesh.Resolution, settings.Mesh.SmoothRadius)

	return settings, nil
}
