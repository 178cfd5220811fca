// Package audit records every dispatched request in a DynamoDB table,
// keyed by ref id, for post-hoc support correlation.
package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/google/uuid"

	"wrfcloud/internal/api"
)

const (
	queueDepth   = 256
	writeTimeout = 10 * time.Second
)

// Record is one stored audit row.
type Record struct {
	ID         string   `dynamodbav:"id"`
	RefID      string   `dynamodbav:"ref_id"`
	Action     string   `dynamodbav:"action"`
	Subject    string   `dynamodbav:"subject,omitempty"`
	Role       string   `dynamodbav:"role"`
	ClientIP   string   `dynamodbav:"client_ip"`
	OK         bool     `dynamodbav:"ok"`
	Errors     []string `dynamodbav:"errors,omitempty"`
	DurationMS int64    `dynamodbav:"duration_ms"`
	CreatedAt  int64    `dynamodbav:"created_at"`
}

// Logger implements api.AuditSink. Writes happen on a background worker
// so the request path never blocks on the audit table.
//
// The entries channel is never closed; shutdown is signaled through
// quit so Record stays safe to call while requests drain during
// shutdown. Entries recorded after Close are dropped.
type Logger struct {
	svc       *dynamodb.DynamoDB
	table     string
	entries   chan api.AuditEntry
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewLogger(svc *dynamodb.DynamoDB, table string) *Logger {
	l := &Logger{
		svc:     svc,
		table:   table,
		entries: make(chan api.AuditEntry, queueDepth),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go l.worker()
	return l
}

// Record queues one entry. If the queue is full the entry is dropped and
// the drop logged; auditing never backpressures request handling.
func (l *Logger) Record(entry api.AuditEntry) {
	select {
	case <-l.quit:
		return
	default:
	}
	select {
	case l.entries <- entry:
	case <-l.quit:
	default:
		log.Printf("audit: queue full, dropping entry for ref id %s", entry.RefID)
	}
}

// Close drains the queue and stops the worker. Safe to call more than
// once, and concurrent Record calls become no-ops rather than panics.
func (l *Logger) Close() {
	l.closeOnce.Do(func() { close(l.quit) })
	<-l.done
}

func (l *Logger) worker() {
	defer close(l.done)
	for {
		select {
		case entry := <-l.entries:
			l.write(entry)
		case <-l.quit:
			for {
				select {
				case entry := <-l.entries:
					l.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) write(entry api.AuditEntry) {
	record := Record{
		ID:         uuid.NewString(),
		RefID:      entry.RefID,
		Action:     entry.Action,
		Subject:    entry.Subject,
		Role:       entry.Role,
		ClientIP:   entry.ClientIP,
		OK:         entry.OK,
		Errors:     entry.Errors,
		DurationMS: entry.Duration.Milliseconds(),
		CreatedAt:  time.Now().UTC().Unix(),
	}

	item, err := dynamodbattribute.MarshalMap(record)
	if err != nil {
		log.Printf("audit: failed to marshal record %s: %v", record.RefID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err = l.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item:      item,
	})
	if err != nil {
		log.Printf("audit: failed to write record %s: %v", record.RefID, err)
	}
}
