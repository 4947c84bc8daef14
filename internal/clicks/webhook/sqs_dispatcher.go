// Package webhook hands webhook deliveries to a delivery queue.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/usecase"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message attribute names set on every queued delivery.
const (
	AttrTrigger   = "trigger"
	AttrWebhookID = "webhook_id"
	AttrSignature = "signature"
)

// ErrQueueNotFound is returned when the configured queue does not exist.
var ErrQueueNotFound = errors.New("webhook queue not found")

// SQSSendAPI is the part of the SQS client the dispatcher uses.
type SQSSendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Delivery is the queued message body. A delivery worker POSTs Data to URL
// with the signature header.
type Delivery struct {
	EventID   string          `json:"eventId"`
	WebhookID string          `json:"webhookId"`
	URL       string          `json:"url"`
	Event     string          `json:"event"`
	CreatedAt time.Time       `json:"createdAt"`
	Data      json.RawMessage `json:"data"`
}

var _ usecase.WebhookDispatcher = (*SQSDispatcher)(nil)

// SQSDispatcher enqueues one signed delivery per subscription.
type SQSDispatcher struct {
	client   SQSSendAPI
	queueURL string
	logger   *zap.Logger
	now      func() time.Time
}

// NewSQSDispatcher creates a new SQSDispatcher
func NewSQSDispatcher(client SQSSendAPI, queueURL string, logger *zap.Logger) *SQSDispatcher {
	return &SQSDispatcher{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
		now:      time.Now,
	}
}

// NewSQSClient builds an SQS client from the default AWS credential chain.
func NewSQSClient(ctx context.Context, region string) (*sqs.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("config.LoadDefaultConfig: %w", err)
	}
	return sqs.NewFromConfig(cfg), nil
}

// Send enqueues payload for every subscription. All subscriptions are
// attempted; the returned error joins the individual failures.
func (d *SQSDispatcher) Send(ctx context.Context, trigger string, subscriptions []domain.WebhookSubscription, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var errs []error
	for _, sub := range subscriptions {
		if err := d.send(ctx, trigger, sub, data); err != nil {
			errs = append(errs, fmt.Errorf("webhook %s: %w", sub.ID, err))
			continue
		}
		d.logger.Debug("webhook delivery queued",
			zap.String("webhook_id", sub.ID),
			zap.String("trigger", trigger),
		)
	}
	return errors.Join(errs...)
}

func (d *SQSDispatcher) send(ctx context.Context, trigger string, sub domain.WebhookSubscription, data []byte) error {
	body, err := json.Marshal(Delivery{
		EventID:   "evt_" + uuid.NewString(),
		WebhookID: sub.ID,
		URL:       sub.URL,
		Event:     trigger,
		CreatedAt: d.now().UTC(),
		Data:      data,
	})
	if err != nil {
		return err
	}

	_, err = d.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(d.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			AttrTrigger:   stringAttribute(trigger),
			AttrWebhookID: stringAttribute(sub.ID),
			AttrSignature: stringAttribute(Sign(sub.Secret, data)),
		},
	})
	if err != nil {
		var notExist *types.QueueDoesNotExist
		if errors.As(err, &notExist) {
			return fmt.Errorf("%w: %s", ErrQueueNotFound, d.queueURL)
		}
		return fmt.Errorf("sqs.SendMessage: %w", err)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of data keyed by secret.
func Sign(secret string, data []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

func stringAttribute(value string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(value),
	}
}
