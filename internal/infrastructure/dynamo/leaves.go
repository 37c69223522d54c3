package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-office-api/internal/domain"
)

// LeaveRepo stores leave requests. Every write after Insert is a
// compare-and-swap on the version attribute.
type LeaveRepo struct {
	client    API
	tableName string
}

func NewLeaveRepo(client API, tableName string) *LeaveRepo {
	return &LeaveRepo{client: client, tableName: tableName}
}

func (r *LeaveRepo) Insert(ctx context.Context, l *domain.LeaveRequest) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal leave: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(leave_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("leave %s already exists: %w", l.LeaveID, domain.ErrConflict)
	}
	return err
}

func (r *LeaveRepo) Get(ctx context.Context, leaveID string) (*domain.LeaveRequest, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("leave_id", leaveID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("leave %s: %w", leaveID, domain.ErrNotFound)
	}
	var l domain.LeaveRequest
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Update replaces the stored request only if its version still equals
// expectedVersion. On success l.Version is advanced; a lost race yields
// ErrConflict and leaves the stored item untouched.
func (r *LeaveRepo) Update(ctx context.Context, l *domain.LeaveRequest, expectedVersion int64) error {
	next := *l
	next.Version = expectedVersion + 1
	item, err := attributevalue.MarshalMap(&next)
	if err != nil {
		return fmt.Errorf("marshal leave: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("#v = :v"),
		ExpressionAttributeNames: map[string]string{"#v": fieldVersion},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("leave %s changed concurrently: %w", l.LeaveID, domain.ErrConflict)
	}
	if err != nil {
		return err
	}
	l.Version = next.Version
	return nil
}

// FindByRequester returns every request filed by requesterID, newest first.
func (r *LeaveRepo) FindByRequester(ctx context.Context, requesterID string) ([]domain.LeaveRequest, error) {
	leaves, err := r.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexLeavesRequester),
		KeyConditionExpression: aws.String("requester_id = :r"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":r": str(requesterID),
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].RequestedAt.After(leaves[j].RequestedAt)
	})
	return leaves, nil
}

// FindPendingByManager returns Pending requests routed to managerID,
// oldest first.
func (r *LeaveRepo) FindPendingByManager(ctx context.Context, managerID string) ([]domain.LeaveRequest, error) {
	leaves, err := r.query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String(indexLeavesManager),
		KeyConditionExpression:   aws.String("manager_id = :m"),
		FilterExpression:         aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{"#s": fieldStatus},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":m": str(managerID),
			":s": str(string(domain.LeavePending)),
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].RequestedAt.Before(leaves[j].RequestedAt)
	})
	return leaves, nil
}

// FindPendingForHR returns ManagerApproved requests ordered by the time the
// manager approved them, oldest first.
func (r *LeaveRepo) FindPendingForHR(ctx context.Context) ([]domain.LeaveRequest, error) {
	leaves, err := r.query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String(indexLeavesStatus),
		KeyConditionExpression:   aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{"#s": fieldStatus},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": str(string(domain.LeaveManagerApproved)),
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return approvedAt(leaves[i]).Before(approvedAt(leaves[j]))
	})
	return leaves, nil
}

// FindInRange returns live (Pending, ManagerApproved or Approved) requests
// overlapping [from, to], ordered by start date.
func (r *LeaveRepo) FindInRange(ctx context.Context, from, to time.Time) ([]domain.LeaveRequest, error) {
	fromAV, err := attributevalue.Marshal(from)
	if err != nil {
		return nil, err
	}
	toAV, err := attributevalue.Marshal(to)
	if err != nil {
		return nil, err
	}
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("start_date <= :to AND end_date >= :from AND #s IN (:p, :ma, :a)"),
		ExpressionAttributeNames: map[string]string{"#s": fieldStatus},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": fromAV,
			":to":   toAV,
			":p":    str(string(domain.LeavePending)),
			":ma":   str(string(domain.LeaveManagerApproved)),
			":a":    str(string(domain.LeaveApproved)),
		},
	})
	var leaves []domain.LeaveRequest
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.LeaveRequest
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		for _, l := range batch {
			if l.Overlaps(from, to) {
				leaves = append(leaves, l)
			}
		}
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].StartDate.Before(leaves[j].StartDate)
	})
	return leaves, nil
}

// ReassignPendingManager re-routes requesterID's Pending requests to
// managerID. Each item is bumped a version so an approval validated
// against the old manager loses its compare-and-swap.
func (r *LeaveRepo) ReassignPendingManager(ctx context.Context, requesterID, managerID string) (int, error) {
	pending, err := r.query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String(indexLeavesRequester),
		KeyConditionExpression:   aws.String("requester_id = :r"),
		FilterExpression:         aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{"#s": fieldStatus},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":r": str(requesterID),
			":s": str(string(domain.LeavePending)),
		},
	})
	if err != nil {
		return 0, err
	}
	now, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, l := range pending {
		_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:           aws.String(r.tableName),
			Key:                 strKey("leave_id", l.LeaveID),
			UpdateExpression:    aws.String("SET #m = :m, #u = :now ADD #v :one"),
			ConditionExpression: aws.String("#s = :s"),
			ExpressionAttributeNames: map[string]string{
				"#m": fieldManagerID, "#u": fieldUpdatedAt, "#v": fieldVersion, "#s": fieldStatus,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":m":   str(managerID),
				":now": now,
				":one": &types.AttributeValueMemberN{Value: "1"},
				":s":   str(string(domain.LeavePending)),
			},
		})
		if isConditionFailed(err) {
			// decided in the meantime
			continue
		}
		if err != nil {
			return moved, fmt.Errorf("reassign leave %s: %w", l.LeaveID, err)
		}
		moved++
	}
	return moved, nil
}

func (r *LeaveRepo) query(ctx context.Context, in *dynamodb.QueryInput) ([]domain.LeaveRequest, error) {
	p := dynamodb.NewQueryPaginator(r.client, in)
	var leaves []domain.LeaveRequest
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.LeaveRequest
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		leaves = append(leaves, batch...)
	}
	return leaves, nil
}

func approvedAt(l domain.LeaveRequest) time.Time {
	if l.ManagerApprovalDate == nil {
		return time.Time{}
	}
	return *l.ManagerApprovalDate
}
