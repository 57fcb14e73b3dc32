package config

// Deckfile represents the structure of the inkdeck.yaml configuration file.
// Every field is optional; absent fields keep their built-in defaults.
type Deckfile struct {
	Workers *int       `yaml:"workers"`
	Keep    *bool      `yaml:"keep"`
	Flat    *bool      `yaml:"flat"`
	Engine  *EngineDTO `yaml:"engine"`
	Mergers []string   `yaml:"mergers"`
}

// EngineDTO configures the external rendering engine.
type EngineDTO struct {
	Command      []string `yaml:"command"`
	ReadyTimeout string   `yaml:"readyTimeout"`
}
