package cache

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tidalpow/backend-go/internal/config"
	"github.com/tidalpow/backend-go/internal/models"
)

// fakeClock implements a mock time source for testing
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now.UTC()
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// mockDynamoDBClient implements a mock DynamoDB client for testing
type mockDynamoDBClient struct {
	getItemFunc        func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	putItemFunc        func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	batchWriteItemFunc func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ DynamoDBClient = (*mockDynamoDBClient)(nil)

func (m *mockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getItemFunc != nil {
		return m.getItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.putItemFunc != nil {
		return m.putItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoDBClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	if m.batchWriteItemFunc != nil {
		return m.batchWriteItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

// newMemoryDynamo returns a mock backed by a map keyed on stationId|date.
func newMemoryDynamo() (*mockDynamoDBClient, func() int) {
	var mu sync.RWMutex
	store := make(map[string]map[string]types.AttributeValue)

	keyOf := func(item map[string]types.AttributeValue) string {
		id := item["stationId"].(*types.AttributeValueMemberS).Value
		date := item["date"].(*types.AttributeValueMemberS).Value
		return id + "|" + date
	}

	client := &mockDynamoDBClient{
		getItemFunc: func(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			mu.RLock()
			defer mu.RUnlock()
			return &dynamodb.GetItemOutput{Item: store[keyOf(params.Key)]}, nil
		},
		putItemFunc: func(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			mu.Lock()
			defer mu.Unlock()
			store[keyOf(params.Item)] = params.Item
			return &dynamodb.PutItemOutput{}, nil
		},
		batchWriteItemFunc: func(_ context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
			mu.Lock()
			defer mu.Unlock()
			for _, requests := range params.RequestItems {
				for _, request := range requests {
					if request.PutRequest != nil {
						store[keyOf(request.PutRequest.Item)] = request.PutRequest.Item
					}
				}
			}
			return &dynamodb.BatchWriteItemOutput{}, nil
		},
	}

	size := func() int {
		mu.RLock()
		defer mu.RUnlock()
		return len(store)
	}
	return client, size
}

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		StationDayLRUSize:       100,
		StationDayLRUTTLMinutes: 15,
		DynamoTableName:         "station-days-test",
		DynamoTTLDays:           2,
		ReportTTLMinutes:        5,
		BatchSize:               25,
		MaxBatchRetries:         3,
		EnableLRUCache:          true,
		EnableDynamoCache:       true,
	}
}

func createTestStationDay(stationID, date string) models.StationDay {
	ts, _ := time.Parse(models.DateLayout, date)
	return models.StationDay{
		StationID: stationID,
		Date:      date,
		Events: []models.TideEvent{
			{
				Type:      models.TideTypeHigh,
				Timestamp: ts.Add(6 * time.Hour).UnixMilli(),
				LocalTime: ts.Add(6 * time.Hour).Format(models.LocalTimeLayout),
				Height:    2.0,
			},
			{
				Type:      models.TideTypeLow,
				Timestamp: ts.Add(12 * time.Hour).UnixMilli(),
				LocalTime: ts.Add(12 * time.Hour).Format(models.LocalTimeLayout),
				Height:    0.5,
			},
		},
		Series: []models.TidePoint{
			{Timestamp: ts.UnixMilli(), LocalTime: ts.Format(models.LocalTimeLayout), Height: 1.2},
		},
	}
}
