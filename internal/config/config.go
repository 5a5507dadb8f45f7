// Package config provides configuration types and loading for quixabot.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the root configuration struct.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Provider ProviderConfig `json:"provider"`
	Sources  SourcesConfig  `json:"sources"`
	Cache    CacheConfig    `json:"cache"`
	Redis    RedisConfig    `json:"redis"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string   `json:"host" envconfig:"HOST"`
	Port         int      `json:"port" envconfig:"PORT"`
	AllowOrigins []string `json:"allowOrigins" envconfig:"ALLOW_ORIGINS"`
}

// ProviderConfig selects and authenticates the language-model backend.
type ProviderConfig struct {
	Name        string  `json:"name" envconfig:"PROVIDER"`
	APIKey      string  `json:"apiKey" envconfig:"GOOGLE_API_KEY"`
	APIBase     string  `json:"apiBase" envconfig:"API_BASE"`
	Model       string  `json:"model" envconfig:"MODEL_NAME"`
	Temperature float64 `json:"temperature" envconfig:"TEMPERATURE"`
}

// SourcesConfig lists the scraped upstream pages.
type SourcesConfig struct {
	DocentesURL     string `json:"docentesUrl" envconfig:"DOCENTES_URL"`
	DocentesBaseURL string `json:"docentesBaseUrl" envconfig:"DOCENTES_BASE_URL"`
	AlocacaoDocURL  string `json:"alocacaoDocUrl" envconfig:"ALOCACAO_DOC_URL"`
	CardapioURL     string `json:"cardapioUrl" envconfig:"CARDAPIO_URL"`
	CalendarURL     string `json:"calendarUrl" envconfig:"CALENDARIO_URL"`
	MunicipalURL    string `json:"municipalUrl" envconfig:"FERIADOS_MUNICIPAIS_URL"`
	SigaaURL        string `json:"sigaaUrl" envconfig:"SIGAA_URL"`
	MoodleURL       string `json:"moodleUrl" envconfig:"MOODLE_URL"`
}

// CacheConfig holds scrape cache lifetimes.
type CacheConfig struct {
	DocentesTTL time.Duration `json:"docentesTtl" envconfig:"DOCENTES_CACHE_TTL"`
	AlocacaoTTL time.Duration `json:"alocacaoTtl" envconfig:"ALOCACAO_CACHE_TTL"`
}

// RedisConfig configures the durable session store. An empty URL selects the
// in-memory store.
type RedisConfig struct {
	URL string `json:"url" envconfig:"REDIS_URL"`
}

// Default returns a Config with the production defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Provider: ProviderConfig{
			Name:        "gemini",
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
		},
		Sources: SourcesConfig{
			DocentesURL:     "https://www.quixada.ufc.br/docente/",
			DocentesBaseURL: "https://www.quixada.ufc.br",
			AlocacaoDocURL:  "https://docs.google.com/document/d/13SWDptyEIPhQJAc8zgbS6HRIJdId56C_dNxwEWs_e7g/edit?tab=t.0",
			CardapioURL:     "https://www.ufc.br/restaurante/cardapio/5-restaurante-universitario-de-quixada",
			CalendarURL:     "https://www.ufc.br/calendario-universitario/",
			MunicipalURL:    "https://feriados.com.br/CE/Quixad%C3%A1/",
			SigaaURL:        "https://si3.ufc.br/sigaa/verTelaLogin.do",
			MoodleURL:       "https://moodle2.quixada.ufc.br/login/index.php",
		},
		Cache: CacheConfig{
			DocentesTTL: 12 * time.Hour,
			AlocacaoTTL: 30 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults overridden by environment
// variables. Variable names follow the original deployment (GOOGLE_API_KEY,
// MODEL_NAME, REDIS_URL, ALLOW_ORIGINS, PORT).
func Load() (*Config, error) {
	cfg := Default()
	groups := []struct {
		name string
		dst  any
	}{
		{"server", &cfg.Server},
		{"provider", &cfg.Provider},
		{"sources", &cfg.Sources},
		{"cache", &cfg.Cache},
		{"redis", &cfg.Redis},
	}
	for _, g := range groups {
		if err := envconfig.Process("", g.dst); err != nil {
			return nil, fmt.Errorf("config %s: %w", g.name, err)
		}
	}
	return cfg, nil
}
