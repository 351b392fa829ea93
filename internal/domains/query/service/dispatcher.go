package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/query"
	"portfolio-backend/internal/infrastructure/email"
	emailjob "portfolio-backend/internal/infrastructure/email/job"
	"portfolio-backend/internal/shared"
)

// notification is one email derived from a stored query.
type notification struct {
	kind email.TemplateKind
	to   []string
}

// notificationsFor returns the admin notification (when an admin address is
// configured) followed by the submitter acknowledgment.
func notificationsFor(q query.ServiceQuery, adminEmail string) []notification {
	out := make([]notification, 0, 2)
	if adminEmail != "" {
		out = append(out, notification{kind: email.KindQueryAdminNotification, to: []string{adminEmail}})
	}
	out = append(out, notification{kind: email.KindQueryAcknowledgment, to: []string{q.Email}})
	return out
}

// ========================================
// INLINE
// ========================================

// InlineDispatcher sends both emails from a background goroutine, each bounded by timeout.
type InlineDispatcher struct {
	notifier   email.Notifier
	adminEmail string
	timeout    time.Duration
	wg         sync.WaitGroup
}

func NewInlineDispatcher(notifier email.Notifier, adminEmail string, timeout time.Duration) *InlineDispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &InlineDispatcher{notifier: notifier, adminEmail: adminEmail, timeout: timeout}
}

func (d *InlineDispatcher) Dispatch(q query.ServiceQuery) {
	if d.adminEmail == "" {
		log.Warn().Int64("query_id", q.ID).Msg("ADMIN_NOTIFY_EMAIL not set, skipping admin notification")
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Int64("query_id", q.ID).Msg("query notification panicked")
			}
		}()

		data := q.EmailData()
		for _, n := range notificationsFor(q, d.adminEmail) {
			if err := d.send(n, data); err != nil {
				log.Error().
					Err(err).
					Str("kind", string(n.kind)).
					Int64("query_id", q.ID).
					Msg("service query email failed")
			}
		}
	}()
}

// each email gets its own timeout
func (d *InlineDispatcher) send(n notification, data email.QueryData) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return d.notifier.Send(ctx, n.kind, n.to, data)
}

func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}

// ========================================
// QUEUE
// ========================================

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher hands each email to the worker as an asynq task.
// Tasks are never retried.
type QueueDispatcher struct {
	client     TaskEnqueuer
	adminEmail string
	timeout    time.Duration
}

func NewQueueDispatcher(client TaskEnqueuer, adminEmail string) *QueueDispatcher {
	return &QueueDispatcher{client: client, adminEmail: adminEmail, timeout: 3 * time.Second}
}

func (d *QueueDispatcher) Dispatch(q query.ServiceQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	for _, n := range notificationsFor(q, d.adminEmail) {
		if err := d.enqueue(ctx, q, n); err != nil {
			log.Error().
				Err(err).
				Str("kind", string(n.kind)).
				Int64("query_id", q.ID).
				Msg("failed to enqueue service query email")
		}
	}
}

func (d *QueueDispatcher) enqueue(ctx context.Context, q query.ServiceQuery, n notification) error {
	payload, err := json.Marshal(emailjob.QueryEmailPayload{
		Kind:  n.kind,
		To:    n.to,
		Query: q.EmailData(),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeSendQueryEmail, payload)
	_, err = d.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueEmail),
		asynq.MaxRetry(0),
		asynq.Timeout(30*time.Second),
	)
	return err
}

// Wait is a no-op: delivery happens in the worker process.
func (d *QueueDispatcher) Wait() {}
