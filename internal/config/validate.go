package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills defaults, cleans lists, and reports problems.
// Returns the normalized copy.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, strings.ToLower(x))
		}
		return ys
	}

	// ---- Defaults ----

	if out.App.Port == 0 {
		out.App.Port = 8090
	}
	if out.App.LogLevel == "" {
		out.App.LogLevel = "info"
	}
	if out.Signals.MaxPerIdentity == 0 {
		out.Signals.MaxPerIdentity = 500
	}
	if out.Signals.MaxAgeDays == 0 {
		out.Signals.MaxAgeDays = 90
	}
	if out.Email.PollSeconds == 0 {
		out.Email.PollSeconds = 300
	}
	if out.Email.MaxEmailsPerPoll == 0 {
		out.Email.MaxEmailsPerPoll = 50
	}
	if len(out.Email.Mailboxes) == 0 {
		out.Email.Mailboxes = []string{"INBOX"}
	}
	if out.Classifier.TimeoutMS == 0 {
		out.Classifier.TimeoutMS = 3000
	}
	if out.Classifier.RatePerSec == 0 {
		out.Classifier.RatePerSec = 1.0
	}

	// Risk terms match against normalized (lowercase) position keys.
	out.Scoring.RiskTerms = trimList(out.Scoring.RiskTerms)

	// ---- Validation ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if out.Signals.MaxPerIdentity < 0 {
		res.addErr("signals.max_per_identity must be >= 0")
	}
	if out.Signals.MaxAgeDays < 0 {
		res.addErr("signals.max_age_days must be >= 0")
	}

	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if out.Email.PollSeconds < 30 {
			res.addWarn("email.poll_seconds is very low (%d) and may trip provider rate limits.", out.Email.PollSeconds)
		}
	}

	if out.Classifier.Enabled && strings.TrimSpace(out.Classifier.URL) == "" {
		res.addErr("classifier.url is required when classifier.enabled=true")
	}

	for skill, candidates := range out.Match.Skills {
		if len(candidates) == 0 {
			res.addWarn("match.skills[%q] has no candidates and will never match.", skill)
		}
	}

	return out, res
}
