package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Emmanuel3dev/market-server/internal/domain"
	"github.com/Emmanuel3dev/market-server/internal/gateway/push"
	"github.com/Emmanuel3dev/market-server/internal/logx"
)

// reminderDays are the lead times, in days before expiry, at which a
// subscription owner is reminded.
var reminderDays = []int{6, 2}

// Jobs bundles the periodic maintenance work over subscriptions, counters,
// stories, and user flags. Each method is one self-contained job run.
type Jobs struct {
	subs     subscriptionStore
	users    userStore
	counters counterStore
	stories  storyStore
	media    mediaDeleter
	gateway  pushGateway
	logger   logx.Logger
	now      func() time.Time
}

// NewJobs creates the maintenance job set.
func NewJobs(
	subs subscriptionStore,
	users userStore,
	counters counterStore,
	stories storyStore,
	media mediaDeleter,
	gateway pushGateway,
	logger logx.Logger,
) *Jobs {
	return &Jobs{
		subs:     subs,
		users:    users,
		counters: counters,
		stories:  stories,
		media:    media,
		gateway:  gateway,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Job is one named unit of maintenance work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Nightly returns the jobs of the midnight run, in execution order.
func (j *Jobs) Nightly() []Job {
	return []Job{
		{Name: "reset_daily_counters", Run: j.ResetDailyCounters},
		{Name: "expire_subscriptions", Run: j.ExpireSubscriptions},
		{Name: "repair_subscription_dates", Run: j.RepairSubscriptionDates},
		{Name: "refresh_subscription_flags", Run: j.RefreshSubscriptionFlags},
		{Name: "send_expiry_reminders", Run: j.SendExpiryReminders},
	}
}

// Hourly returns the jobs of the hourly sweep.
func (j *Jobs) Hourly() []Job {
	return []Job{
		{Name: "collect_expired_stories", Run: j.CollectExpiredStories},
	}
}

// RunAll executes every job in order. A failing job is logged and counted but
// never stops the jobs after it; the combined failure is returned so the
// caller can reschedule the whole batch.
func (j *Jobs) RunAll(ctx context.Context, jobs []Job, errCounter counter) error {
	var errs []error
	for _, job := range jobs {
		log := j.logger.With(logx.String("component", "maintenance"), logx.String("job", job.Name))
		started := j.now()
		if err := job.Run(ctx); err != nil {
			if errCounter != nil {
				errCounter.Inc()
			}
			log.Error("maintenance job failed",
				logx.Duration("elapsed", j.now().Sub(started)),
				logx.Any("err", err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", job.Name, err))
			continue
		}
		log.Info("maintenance job done",
			logx.Duration("elapsed", j.now().Sub(started)),
		)
	}
	return errors.Join(errs...)
}

// ResetDailyCounters zeroes every user's daily order counter.
func (j *Jobs) ResetDailyCounters(ctx context.Context) error {
	ids, err := j.users.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := j.counters.ResetAll(ctx, ids, j.now()); err != nil {
		return err
	}
	j.logger.Info("daily counters reset", logx.Int("users", len(ids)))
	return nil
}

// ExpireSubscriptions flips every overdue active subscription to expired.
func (j *Jobs) ExpireSubscriptions(ctx context.Context) error {
	n, err := j.subs.ExpireOverdue(ctx, j.now())
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.Info("subscriptions expired", logx.Int64("count", n))
	}
	return nil
}

// RepairSubscriptionDates normalizes every subscription whose stored length
// deviates from the plan back to exactly start+30 days. Running it twice in a
// row changes nothing the second time.
func (j *Jobs) RepairSubscriptionDates(ctx context.Context) error {
	subs, err := j.subs.List(ctx)
	if err != nil {
		return err
	}

	fixes := make(map[string]time.Time)
	for _, s := range subs {
		if s.DurationDays() == domain.PlanDurationDays {
			continue
		}
		fixes[s.ID] = s.StartDate.AddDate(0, 0, domain.PlanDurationDays)
	}
	if len(fixes) == 0 {
		return nil
	}
	if err := j.subs.UpdateEndDates(ctx, fixes); err != nil {
		return err
	}
	j.logger.Info("subscription dates repaired", logx.Int("count", len(fixes)))
	return nil
}

// RefreshSubscriptionFlags recomputes the per-user delivery-subscription flag
// from the live subscription rows.
func (j *Jobs) RefreshSubscriptionFlags(ctx context.Context) error {
	_, err := j.users.RefreshSubscriptionFlags(ctx, j.now())
	return err
}

// SendExpiryReminders notifies owners of subscriptions expiring in the
// configured lead windows. A send failure for one user never blocks the rest;
// the run fails only when a reminder window cannot be read at all.
func (j *Jobs) SendExpiryReminders(ctx context.Context) error {
	now := j.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var firstErr error
	for _, days := range reminderDays {
		from := dayStart.AddDate(0, 0, days)
		to := from.Add(24 * time.Hour)

		reminders, err := j.subs.ListExpiringBetween(ctx, from, to)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		title := "Abonnement livraison"
		body := fmt.Sprintf("Votre abonnement livraison expire dans %d jours.", days)
		for _, rem := range reminders {
			j.remind(ctx, rem.UserID, rem.Token, title, body)
		}
	}
	return firstErr
}

func (j *Jobs) remind(ctx context.Context, userID string, token *string, title, body string) {
	if err := j.users.SaveNotification(ctx, userID, title, body); err != nil {
		j.logger.Warn("save reminder failed",
			logx.String("user_id", userID), logx.Any("err", err))
	}
	if token == nil || *token == "" {
		return
	}
	if err := j.gateway.Send(ctx, *token, title, body); err != nil {
		if errors.Is(err, push.ErrTokenInvalid) {
			if purgeErr := j.users.PurgeToken(ctx, *token); purgeErr != nil {
				j.logger.Warn("purge token failed", logx.Any("err", purgeErr))
			}
			return
		}
		j.logger.Warn("reminder push failed",
			logx.String("user_id", userID), logx.Any("err", err))
	}
}

// CollectExpiredStories deletes stories past their 24h lifetime and cleans up
// their external media. A media delete failure is logged, not retried; the
// database row is already gone.
func (j *Jobs) CollectExpiredStories(ctx context.Context) error {
	deleted, err := j.stories.DeleteExpired(ctx, j.now())
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return nil
	}

	for _, s := range deleted {
		if s.MediaPublicID == nil || j.media == nil {
			continue
		}
		if err := j.media.Delete(ctx, *s.MediaPublicID); err != nil {
			j.logger.Warn("story media delete failed",
				logx.String("story_id", s.ID),
				logx.String("media_public_id", *s.MediaPublicID),
				logx.Any("err", err),
			)
		}
	}
	j.logger.Info("expired stories collected", logx.Int("count", len(deleted)))
	return nil
}
