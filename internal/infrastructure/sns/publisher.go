package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/go-office-api/internal/domain"
)

// publishAPI is the part of *sns.Client the publisher needs.
type publishAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// LeaveEventMessage is the JSON body published for every committed transition.
type LeaveEventMessage struct {
	Event       domain.LeaveEvent  `json:"event"`
	LeaveID     string             `json:"leave_id"`
	RequesterID string             `json:"requester_id"`
	ActorID     string             `json:"actor_id"`
	Status      domain.LeaveStatus `json:"status"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// LeavePublisher announces leave lifecycle events on an SNS topic for
// downstream integrations (calendar sync, payroll export).
type LeavePublisher struct {
	client   publishAPI
	topicARN string
	now      func() time.Time
}

func NewLeavePublisher(client publishAPI, topicARN string) *LeavePublisher {
	return &LeavePublisher{client: client, topicARN: topicARN, now: time.Now}
}

// NewClient builds an SNS client from a resolved AWS config, honouring a
// LocalStack endpoint when set.
func NewClient(awsCfg aws.Config, endpointURL string) *sns.Client {
	return sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
		}
	})
}

func (p *LeavePublisher) PublishLeaveEvent(ctx context.Context, event domain.LeaveEvent, l *domain.LeaveRequest, actorID string) error {
	body, err := json.Marshal(LeaveEventMessage{
		Event:       event,
		LeaveID:     l.LeaveID,
		RequesterID: l.RequesterID,
		ActorID:     actorID,
		Status:      l.Status,
		OccurredAt:  p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal leave event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String(string(event))},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s for leave %s: %w", event, l.LeaveID, err)
	}
	return nil
}
