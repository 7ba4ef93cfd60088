package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/tidalpow/backend-go/internal/config"
	"github.com/tidalpow/backend-go/internal/models"
)

// DynamoStationDayCache stores raw station-days in DynamoDB, keyed by
// stationId and date, with a TTL attribute.
type DynamoStationDayCache struct {
	client DynamoDBClient
	config *config.CacheConfig
	clock  clock
	sleep  func(time.Duration)
}

func NewDynamoStationDayCache(client DynamoDBClient, cacheConfig *config.CacheConfig) *DynamoStationDayCache {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &DynamoStationDayCache{
		client: client,
		config: cacheConfig,
		clock:  realClock{},
		sleep:  time.Sleep,
	}
}

// GetStationDay returns the cached station-day, or nil when absent or expired.
func (c *DynamoStationDayCache) GetStationDay(ctx context.Context, stationID, date string) (*models.StationDay, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(c.config.DynamoTableName),
		Key: map[string]types.AttributeValue{
			"stationId": &types.AttributeValueMemberS{Value: stationID},
			"date":      &types.AttributeValueMemberS{Value: date},
		},
	}

	result, err := c.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("getting station-day from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record models.StationDay
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling station-day: %w", err)
	}

	// DynamoDB deletes expired items lazily
	if c.clock.Now().Unix() >= record.TTL {
		log.Debug().
			Str("station_id", stationID).
			Str("date", date).
			Msg("Cache expired")
		return nil, nil
	}

	return &record, nil
}

// SaveStationDay stamps LastUpdated and TTL and writes the record.
func (c *DynamoStationDayCache) SaveStationDay(ctx context.Context, record models.StationDay) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid station-day: %w", err)
	}

	item, err := c.marshal(record)
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(c.config.DynamoTableName),
		Item:      item,
	}

	if _, err := c.client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("putting station-day in DynamoDB: %w", err)
	}

	log.Trace().
		Str("station_id", record.StationID).
		Str("date", record.Date).
		Msg("Saved station-day to cache")

	return nil
}

// SaveStationDaysBatch writes records in chunks of the configured batch size,
// retrying each chunk with exponential backoff.
func (c *DynamoStationDayCache) SaveStationDaysBatch(ctx context.Context, records []models.StationDay) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("invalid station-day: %w", err)
		}
	}

	batchSize := c.config.BatchSize
	if batchSize <= 0 {
		batchSize = 25
	}
	maxRetries := c.config.MaxBatchRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, record := range records[i:end] {
			item, err := c.marshal(record)
			if err != nil {
				return err
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		var lastErr error
		for retry := 0; retry < maxRetries; retry++ {
			input := &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					c.config.DynamoTableName: writeRequests,
				},
			}

			out, err := c.client.BatchWriteItem(ctx, input)
			if err == nil && len(out.UnprocessedItems[c.config.DynamoTableName]) > 0 {
				writeRequests = out.UnprocessedItems[c.config.DynamoTableName]
				err = fmt.Errorf("%d unprocessed items", len(writeRequests))
			}
			if err != nil {
				lastErr = err
				c.sleep(time.Duration(1<<retry) * 100 * time.Millisecond)
				continue
			}
			lastErr = nil
			break
		}
		if lastErr != nil {
			return fmt.Errorf("batch writing station-days after %d retries: %w", maxRetries, lastErr)
		}
	}

	return nil
}

func (c *DynamoStationDayCache) marshal(record models.StationDay) (map[string]types.AttributeValue, error) {
	now := c.clock.Now().Unix()
	record.LastUpdated = now
	record.TTL = now + int64(c.config.GetDynamoTTL().Seconds())

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("marshaling station-day: %w", err)
	}
	return item, nil
}
