package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultJobsTableName = "rfp_jobs"
	maxUpdateAttempts    = 5
)

var ErrConcurrentJobUpdate = errors.New("job was modified concurrently")

// DynamoJobAPI is the part of the DynamoDB client the job repository uses.
type DynamoJobAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type jobItem struct {
	ID              string `dynamodbav:"id"`
	Stage           string `dynamodbav:"stage"`
	Status          string `dynamodbav:"status"`
	CreatedAt       string `dynamodbav:"created_at"`
	UpdatedAt       string `dynamodbav:"updated_at"`
	Options         string `dynamodbav:"options"`
	CancelRequested bool   `dynamodbav:"cancel_requested"`
	Result          string `dynamodbav:"result,omitempty"`
	Error           string `dynamodbav:"error,omitempty"`
	Approval        string `dynamodbav:"approval,omitempty"`
	Version         int64  `dynamodbav:"version"`
}

// JobDynamoRepository persists jobs in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Structured fields (options, result, error, approval) are stored as JSON
// strings. Every write is a conditional put on the version read just before,
// which serializes updates of one job across processes.
type JobDynamoRepository struct {
	ddb       DynamoJobAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IJobRepository = (*JobDynamoRepository)(nil)

func NewJobDynamoRepository(ddb DynamoJobAPI, tableName string) *JobDynamoRepository {
	if tableName == "" {
		tableName = defaultJobsTableName
	}
	return &JobDynamoRepository{
		ddb:       ddb,
		tableName: tableName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *JobDynamoRepository) Create(ctx context.Context, job entities.Job) (entities.Job, error) {
	it, err := toJobItem(job)
	if err != nil {
		return entities.Job{}, err
	}
	it.Version = 1
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Job{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Job{}, entities.ErrJobExists
		}
		return entities.Job{}, err
	}
	return job, nil
}

func (r *JobDynamoRepository) Get(ctx context.Context, id string) (entities.Job, error) {
	it, found, err := r.getItem(ctx, id)
	if err != nil || !found {
		return entities.Job{}, err
	}
	return fromJobItem(it)
}

func (r *JobDynamoRepository) Start(ctx context.Context, id string) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Start(now)
	})
}

func (r *JobDynamoRepository) UpdateStage(ctx context.Context, id string, stage entities.JobStage) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.AdvanceTo(stage, now)
	})
}

func (r *JobDynamoRepository) SetResult(ctx context.Context, id string, result entities.JobResult) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Complete(result, now)
	})
}

func (r *JobDynamoRepository) SetError(ctx context.Context, id string, jobErr entities.JobError) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Fail(jobErr, now)
	})
}

func (r *JobDynamoRepository) SetApproval(ctx context.Context, id string, approval entities.Approval) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Approve(approval, now)
	})
}

func (r *JobDynamoRepository) RequestCancel(ctx context.Context, id string) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.RequestCancel(now)
	})
}

func (r *JobDynamoRepository) Cancel(ctx context.Context, id string) (entities.Job, error) {
	return r.update(ctx, id, func(j entities.Job, now time.Time) (entities.Job, error) {
		return j.Cancel(now)
	})
}

func (r *JobDynamoRepository) getItem(ctx context.Context, id string) (jobItem, bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return jobItem{}, false, err
	}
	if len(out.Item) == 0 {
		return jobItem{}, false, nil
	}
	var it jobItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return jobItem{}, false, err
	}
	return it, true, nil
}

// update reads the job, applies the transition and writes it back guarded by
// the version it read. A lost race re-reads and re-applies the transition.
func (r *JobDynamoRepository) update(
	ctx context.Context,
	id string,
	transition func(j entities.Job, now time.Time) (entities.Job, error),
) (entities.Job, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		cur, found, err := r.getItem(ctx, id)
		if err != nil {
			return entities.Job{}, err
		}
		if !found {
			return entities.Job{}, nil
		}
		job, err := fromJobItem(cur)
		if err != nil {
			return entities.Job{}, err
		}
		next, err := transition(job, r.now())
		if err != nil {
			return entities.Job{}, err
		}

		it, err := toJobItem(next)
		if err != nil {
			return entities.Job{}, err
		}
		it.Version = cur.Version + 1
		av, err := attributevalue.MarshalMap(it)
		if err != nil {
			return entities.Job{}, err
		}

		_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(r.tableName),
			Item:                av,
			ConditionExpression: aws.String("#version = :version"),
			ExpressionAttributeNames: map[string]string{
				"#version": "version",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(cur.Version, 10)},
			},
		})
		if err == nil {
			return next, nil
		}
		var cfe *types.ConditionalCheckFailedException
		if !errors.As(err, &cfe) {
			return entities.Job{}, err
		}
	}
	return entities.Job{}, ErrConcurrentJobUpdate
}

func toJobItem(j entities.Job) (jobItem, error) {
	opts, err := json.Marshal(j.Options)
	if err != nil {
		return jobItem{}, err
	}
	it := jobItem{
		ID:              j.ID,
		Stage:           string(j.Stage),
		Status:          string(j.Status),
		CreatedAt:       j.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       j.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Options:         string(opts),
		CancelRequested: j.CancelRequested,
	}
	if it.Result, err = marshalOptional(j.Result); err != nil {
		return jobItem{}, err
	}
	if it.Error, err = marshalOptional(j.Error); err != nil {
		return jobItem{}, err
	}
	if it.Approval, err = marshalOptional(j.Approval); err != nil {
		return jobItem{}, err
	}
	return it, nil
}

func fromJobItem(it jobItem) (entities.Job, error) {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	j := entities.Job{
		ID:              it.ID,
		Stage:           entities.JobStage(it.Stage),
		Status:          entities.JobStatus(it.Status),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
		CancelRequested: it.CancelRequested,
	}
	if it.Options != "" {
		if err := json.Unmarshal([]byte(it.Options), &j.Options); err != nil {
			return entities.Job{}, err
		}
	}
	if it.Result != "" {
		j.Result = &entities.JobResult{}
		if err := json.Unmarshal([]byte(it.Result), j.Result); err != nil {
			return entities.Job{}, err
		}
	}
	if it.Error != "" {
		j.Error = &entities.JobError{}
		if err := json.Unmarshal([]byte(it.Error), j.Error); err != nil {
			return entities.Job{}, err
		}
	}
	if it.Approval != "" {
		j.Approval = &entities.Approval{}
		if err := json.Unmarshal([]byte(it.Approval), j.Approval); err != nil {
			return entities.Job{}, err
		}
	}
	return j, nil
}

func marshalOptional[T any](v *T) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
