// Package worker drains the welcome-email queue. Check-in responses never
// wait on this pool; a send failure is logged and recorded but invisible at
// the HTTP boundary.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"EventReach/internal/metrics"
	"EventReach/internal/models"
	"EventReach/internal/templates"
)

type LogStore interface {
	CreateEmailLog(ctx context.Context, l *models.EmailLog) error
}

type MailSender interface {
	Send(to, subject, htmlBody, displayName string) error
}

func StartPool(
	ctx context.Context,
	wg *sync.WaitGroup,
	workers int,
	jobs <-chan models.WelcomeEmailJob,
	sender MailSender,
	limiter *rate.Limiter,
	store LogStore,
	logger *zap.Logger,
) {
	welcome, ok := templates.Get("welcome")
	if !ok {
		logger.Fatal("welcome template missing from catalog")
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			logger.Info("welcome email worker started", zap.Int("worker_id", id))

			for {
				select {

				case <-ctx.Done():
					logger.Info("worker shutting down", zap.Int("worker_id", id))
					return

				case job, ok := <-jobs:
					if !ok {
						logger.Info("job channel closed", zap.Int("worker_id", id))
						return
					}

					if err := limiter.Wait(ctx); err != nil {
						logger.Warn("rate limiter stopped by context",
							zap.Int("worker_id", id),
							zap.Error(err),
						)
						return
					}

					body := templates.Personalize(welcome.HTML, job.Name, job.Email)
					sendErr := sender.Send(job.Email, welcome.Subject, body, job.Name)

					logRow := &models.EmailLog{
						UserID:    job.UserID,
						EmailType: models.EmailTypeWelcome,
						Subject:   welcome.Subject,
						Status:    models.EmailSent,
						SentAt:    time.Now(),
					}

					if sendErr != nil {
						logRow.Status = models.EmailFailed
						logRow.Error = sendErr.Error()

						metrics.WelcomeEmailFailures.Inc()
						logger.Error("welcome email failed",
							zap.Int("worker_id", id),
							zap.String("to", job.Email),
							zap.Error(sendErr),
						)
					} else {
						metrics.WelcomeEmailsSent.Inc()
						logger.Info("welcome email sent",
							zap.Int("worker_id", id),
							zap.String("to", job.Email),
						)
					}

					if err := store.CreateEmailLog(ctx, logRow); err != nil {
						logger.Error("email log write failed",
							zap.String("to", job.Email),
							zap.Error(err),
						)
					}
				}
			}
		}(i)
	}
}
