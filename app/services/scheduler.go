// Package services runs the background jobs: periodic dataset refresh
// and the nightly reminder digest.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/ayathanschool/fee-app/app/config"
	"github.com/ayathanschool/fee-app/app/notify"
	"github.com/ayathanschool/fee-app/app/reminders"
	"github.com/ayathanschool/fee-app/app/store"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartScheduler wires the cron jobs and starts them. The returned
// cron can be stopped on shutdown.
func StartScheduler(st *store.Store, sender *notify.Sender, log *logrus.Logger) *cron.Cron {
	c := cron.New()

	// Transactions change during the day; roster and schedule rarely
	// do, so the full reload only runs before school hours.
	c.AddFunc("*/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := st.RefreshTransactions(ctx); err != nil {
			log.Warnf("scheduled transaction refresh failed: %v", err)
		}
	})
	c.AddFunc("0 6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := st.Load(ctx); err != nil {
			log.Warnf("scheduled full reload failed: %v", err)
		}
	})

	// Nightly digest of pending fees, when mail is configured.
	c.AddFunc("0 20 * * *", func() {
		SendReminderDigest(st, sender, log)
	})

	c.Start()
	log.Info("scheduler started")
	return c
}

// SendReminderDigest mails the grouped pending-fee list to the
// configured recipient. A missing mail setup just skips the job.
func SendReminderDigest(st *store.Store, sender *notify.Sender, log *logrus.Logger) {
	if sender == nil || !sender.Configured() || config.AppConfig.SMTP.DigestTo == "" {
		log.Debug("digest skipped, mail not configured")
		return
	}

	groups := reminders.GroupByStudent(
		reminders.BuildItems(st.Students(), st.FeeHeads(), st.GlobalPaidIndex(), reminders.Options{}))
	if len(groups) == 0 {
		log.Info("digest skipped, no pending fees")
		return
	}
	reminders.SortGroups(groups)

	var b strings.Builder
	for _, g := range groups {
		b.WriteString(reminders.RenderGroup(reminders.DefaultTemplate, g))
		b.WriteString("\n\n")
	}
	if err := sender.Send(config.AppConfig.SMTP.DigestTo, "Pending fee reminders", b.String()); err != nil {
		log.Errorf("reminder digest failed: %v", err)
		return
	}
	log.WithFields(logrus.Fields{"students": len(groups)}).Info("reminder digest sent")
}
