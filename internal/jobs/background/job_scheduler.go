package background

import (
	"context"
	"log"
	"sync"
	"time"

	"crmhub/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic billing sweeps.
type JobScheduler struct {
	scheduler       gocron.Scheduler
	invoiceSvc      services.InvoiceService
	subscriptionSvc services.SubscriptionService
	jobs            map[string]gocron.Job
	mu              sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(invoiceSvc services.InvoiceService, subscriptionSvc services.SubscriptionService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:       scheduler,
		invoiceSvc:      invoiceSvc,
		subscriptionSvc: subscriptionSvc,
		jobs:            make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	overdueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.sweepOverdueInvoices, context.Background()),
		gocron.WithName("invoice-overdue-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create invoice overdue job: %v", err)
	} else {
		js.jobs["invoice-overdue"] = overdueJob
	}

	expiryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(6*time.Hour),
		gocron.NewTask(js.sweepExpiredSubscriptions, context.Background()),
		gocron.WithName("subscription-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create subscription expiry job: %v", err)
	} else {
		js.jobs["subscription-expiry"] = expiryJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepOverdueInvoices flips sent invoices past their due date to overdue
func (js *JobScheduler) sweepOverdueInvoices(ctx context.Context) error {
	marked, err := js.invoiceSvc.MarkOverdue(ctx)
	if err != nil {
		log.Printf("Invoice overdue sweep failed: %v", err)
		return err
	}
	if marked > 0 {
		log.Printf("Invoice overdue sweep marked %d invoices", marked)
	}
	return nil
}

// sweepExpiredSubscriptions cancels active subscriptions past their end date
func (js *JobScheduler) sweepExpiredSubscriptions(ctx context.Context) error {
	cancelled, err := js.subscriptionSvc.CancelExpired(ctx)
	if err != nil {
		log.Printf("Subscription expiry sweep failed: %v", err)
		return err
	}
	if cancelled > 0 {
		log.Printf("Subscription expiry sweep cancelled %d subscriptions", cancelled)
	}
	return nil
}

// GetJobStatus returns the names of scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}
