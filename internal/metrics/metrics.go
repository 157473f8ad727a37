package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CheckIns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkins_total",
			Help: "Total check-in requests processed",
		},
	)

	WelcomeEmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "welcome_emails_sent_total",
			Help: "Total welcome emails sent",
		},
	)

	WelcomeEmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "welcome_email_failures_total",
			Help: "Total failed welcome emails",
		},
	)

	CampaignEmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_emails_sent_total",
			Help: "Total campaign emails sent",
		},
	)

	CampaignEmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_email_failures_total",
			Help: "Total failed campaign emails",
		},
	)

	CampaignTasksExecuted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_tasks_executed_total",
			Help: "Total scheduled email tasks executed to completion",
		},
	)
)

func Init() {
	prometheus.MustRegister(CheckIns)
	prometheus.MustRegister(WelcomeEmailsSent)
	prometheus.MustRegister(WelcomeEmailFailures)
	prometheus.MustRegister(CampaignEmailsSent)
	prometheus.MustRegister(CampaignEmailFailures)
	prometheus.MustRegister(CampaignTasksExecuted)
}
