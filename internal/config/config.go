package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port     int    `yaml:"port"`
		DataDir  string `yaml:"data_dir"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Reputation struct {
		// SnapshotPath is the JSON table the offline builder wrote; loaded
		// once at startup.
		SnapshotPath string `yaml:"snapshot_path"`
		// DatasetPath is the labeled postings CSV consumed by
		// `engine build-reputation`.
		DatasetPath string `yaml:"dataset_path"`
	} `yaml:"reputation"`

	Signals struct {
		MaxPerIdentity int `yaml:"max_per_identity"`
		MaxAgeDays     int `yaml:"max_age_days"`
	} `yaml:"signals"`

	Scoring struct {
		// RiskTerms is the position-substring denylist that adds fraud risk
		// traits.
		RiskTerms []string `yaml:"risk_terms"`
	} `yaml:"scoring"`

	Match struct {
		// Skills maps a skill token to candidate role/company keys. Empty
		// means the built-in map.
		Skills map[string][]string `yaml:"skills"`
	} `yaml:"match"`

	Email struct {
		Enabled          bool     `yaml:"enabled"`
		IMAPHost         string   `yaml:"imap_host"`
		IMAPPort         int      `yaml:"imap_port"`
		Username         string   `yaml:"username"`
		Mailboxes        []string `yaml:"mailboxes"`
		PollSeconds      int      `yaml:"poll_seconds"`
		MaxEmailsPerPoll int      `yaml:"max_emails_per_poll"`
	} `yaml:"email"`

	Classifier struct {
		Enabled    bool    `yaml:"enabled"`
		URL        string  `yaml:"url"`
		TimeoutMS  int     `yaml:"timeout_ms"`
		RatePerSec float64 `yaml:"rate_per_sec"`
	} `yaml:"classifier"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
