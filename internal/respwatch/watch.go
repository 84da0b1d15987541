// Package respwatch turns employer emails into observed_response signals.
// It polls an IMAP inbox for unseen mail, classifies interview / rejection /
// acknowledgement responses by envelope alone, and records one response
// signal per match keyed by the sender's company.
package respwatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"energysink-engine/internal/config"
	"energysink-engine/internal/domain"
	"energysink-engine/internal/events"
	"energysink-engine/internal/identity"
	"energysink-engine/internal/signal"
)

type Watcher struct {
	Signals *signal.Store
	Hub     *events.Hub
	Log     *zap.SugaredLogger
}

// RunOnce polls every configured mailbox concurrently and records the
// responses it finds. Returns how many signals were recorded.
func (w *Watcher) RunOnce(ctx context.Context, cfg config.Config, password string) (observed int, err error) {
	if !cfg.Email.Enabled {
		return 0, nil
	}
	if cfg.Email.IMAPHost == "" || cfg.Email.Username == "" {
		return 0, errors.New("email enabled but missing imap_host/username")
	}
	if password == "" {
		return 0, errors.New("missing IMAP password (store it in the keychain first)")
	}

	addr := cfg.Email.IMAPHost
	if cfg.Email.IMAPPort != 0 && !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("%s:%d", addr, cfg.Email.IMAPPort)
	} else if !strings.Contains(addr, ":") {
		addr += ":993"
	}

	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	var g errgroup.Group
	counts := make(chan int, len(cfg.Email.Mailboxes))

	for _, mailbox := range cfg.Email.Mailboxes {
		mailbox := mailbox
		g.Go(func() error {
			n, err := w.pollMailbox(ctx, addr, mailbox, cfg, password)
			if err != nil {
				return fmt.Errorf("mailbox %q: %w", mailbox, err)
			}
			counts <- n
			return nil
		})
	}

	err = g.Wait()
	close(counts)
	for n := range counts {
		observed += n
	}
	return observed, err
}

func (w *Watcher) pollMailbox(ctx context.Context, addr, mailbox string, cfg config.Config, password string) (int, error) {
	c, err := dialAndLogin(ctx, addr, cfg.Email.Username, password)
	if err != nil {
		return 0, err
	}
	defer logoutAndClose(c)

	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return 0, fmt.Errorf("imap select: %w", err)
	}

	msgs, err := fetchUnseen(ctx, c, cfg.Email.MaxEmailsPerPoll)
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	observed := 0
	processed := make([]imap.UID, 0, len(msgs))

	for _, m := range msgs {
		processed = append(processed, m.UID)

		class, ok := ClassifyMessage(m.Subject, m.From)
		if !ok {
			continue
		}
		companyKey := CompanyKeyFromSender(m.From)
		if companyKey == "" {
			continue
		}

		at := m.Date
		if at.IsZero() {
			at = time.Now()
		}

		id := identity.Natural(companyKey, "")
		sig := domain.EffortSignal{
			Kind: domain.KindObservedResponse,
			At:   at,
			Metadata: map[string]string{
				"source": "email",
				"class":  string(class),
			},
		}
		if err := w.Signals.Record(id, sig); err != nil {
			w.Log.Warnw("record response signal", "bucket", id.BucketKey(), "error", err)
			continue
		}
		observed++

		if w.Hub != nil {
			w.Hub.Publish(events.MakeEvent("", events.TypeResponseObserved, map[string]any{
				"company": companyKey,
				"class":   string(class),
			}))
		}
	}

	if err := markSeen(c, processed); err != nil {
		w.Log.Warnw("mark seen", "error", err)
	}
	return observed, nil
}
