/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dataaccess/datastore"
	"github.com/suparena/dataaccess/internal/docquery"
	"github.com/suparena/dataaccess/query"
)

// Store implements datastore.Store on a single DynamoDB table.
type Store struct {
	client    Client
	tableName string
	tracker   *datastore.Tracker
	logger    *slog.Logger
	saveMu    sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for scan and write records
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store writing to tableName through client.
func New(client Client, tableName string, opts ...Option) *Store {
	s := &Store{
		client:    client,
		tableName: tableName,
		tracker:   datastore.NewTracker(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert allocates a pending record
func (s *Store) Insert(ctx context.Context, entityName string) (any, error) {
	tracked, err := s.tracker.Allocate(entityName)
	if err != nil {
		return nil, err
	}
	return tracked.Record(), nil
}

// Fetch scans the records of one type and applies params. DynamoDB cannot
// order a scan, so sorting and paging happen after the filter.
func (s *Store) Fetch(ctx context.Context, entityName string, params query.Params) ([]any, error) {
	if err := datastore.CheckParams(entityName, params); err != nil {
		return nil, err
	}

	items, err := s.current(ctx, entityName, params.Predicate)
	if err != nil {
		return nil, err
	}

	results := make([]any, 0)
	for _, i := range docquery.Select(items.docs, params) {
		record, err := s.tracker.Resolve(entityName, items.ids[i], items.data[i])
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	return results, nil
}

// Count counts the records of one type matching predicate
func (s *Store) Count(ctx context.Context, entityName string, predicate *query.Predicate) (int, error) {
	if err := datastore.CheckPredicate(entityName, predicate); err != nil {
		return 0, err
	}

	items, err := s.current(ctx, entityName, predicate)
	if err != nil {
		return 0, err
	}
	return len(docquery.Filter(items.docs, predicate)), nil
}

// current scans the records of one type with the documents of records that
// have unsaved changes replaced by their current values. The predicate is
// only pushed to DynamoDB when no such record exists, since the table holds
// their old values.
func (s *Store) current(ctx context.Context, entityName string, predicate *query.Predicate) (scanned, error) {
	dirty, err := s.tracker.Dirty(entityName)
	if err != nil {
		return scanned{}, err
	}
	if len(dirty) > 0 {
		predicate = nil
	}
	items, err := s.scan(ctx, entityName, predicate)
	if err != nil {
		return scanned{}, err
	}
	if err := datastore.Overlay(dirty, items.ids, items.docs); err != nil {
		return scanned{}, err
	}
	return items, nil
}

// Save writes every pending change. Writes are not transactional: changes
// written before a failure are kept and the rest stay pending.
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	changes, err := s.tracker.Pending()
	if err != nil {
		return err
	}

	for i, c := range changes {
		if err := s.apply(ctx, c); err != nil {
			s.tracker.Commit(changes[:i])
			return err
		}
	}
	s.tracker.Commit(changes)

	if len(changes) > 0 {
		s.logger.DebugContext(ctx, "dynamodb save", slog.String("table", s.tableName), slog.Int("changes", len(changes)))
	}
	return nil
}

// Reset forgets every tracked record, discarding unsaved changes.
func (s *Store) Reset() {
	s.tracker.Reset()
}

// Remove stages the deletion of record
func (s *Store) Remove(ctx context.Context, record any) error {
	_, err := s.tracker.MarkDeleted(record)
	return err
}

func (s *Store) apply(ctx context.Context, c datastore.Change) error {
	var previous map[string]types.AttributeValue
	if c.Snapshot != nil {
		item, err := toItem(c.EntityName, c.StorageID, c.Snapshot)
		if err != nil {
			return err
		}
		if previous, err = primaryKey(expandMacros(keyMapFor(c.EntityName), item)); err != nil {
			return err
		}
	}

	if c.Deleted {
		if previous == nil {
			// never persisted
			return nil
		}
		return s.deleteItem(ctx, c, previous)
	}

	item, err := toItem(c.EntityName, c.StorageID, c.Data)
	if err != nil {
		return err
	}
	expanded := expandMacros(keyMapFor(c.EntityName), item)
	key, err := primaryKey(expanded)
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.EntityName, c.StorageID, err)
	}
	for k, v := range expanded {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}

	_, err = s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}

	// A key derived from a changed field moves the item.
	if previous != nil && !sameKey(previous, key) {
		return s.deleteItem(ctx, c, previous)
	}
	return nil
}

func (s *Store) deleteItem(ctx context.Context, c datastore.Change, key map[string]types.AttributeValue) error {
	_, err := s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", c.EntityName, c.StorageID, err)
	}
	return nil
}

// scanned holds the decoded items of one scan, index-aligned.
type scanned struct {
	ids  []string
	data [][]byte
	docs []docquery.Doc
}

func (s *Store) scan(ctx context.Context, entityName string, predicate *query.Predicate) (scanned, error) {
	f := buildFilter(entityName, predicate)
	input := &sdk.ScanInput{
		TableName:                 &s.tableName,
		FilterExpression:          aws.String(f.Expression),
		ExpressionAttributeNames:  f.Names,
		ExpressionAttributeValues: f.Values,
		ConsistentRead:            aws.Bool(true),
	}

	var out scanned
	pages := 0
	paginator := sdk.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return scanned{}, fmt.Errorf("scan error: %w", err)
		}
		pages++
		for _, item := range page.Items {
			id, doc, data, err := fromItem(entityName, item)
			if err != nil {
				return scanned{}, err
			}
			out.ids = append(out.ids, id)
			out.docs = append(out.docs, doc)
			out.data = append(out.data, data)
		}
	}

	s.logger.DebugContext(ctx, "dynamodb scan",
		slog.String("table", s.tableName),
		slog.String("entity", entityName),
		slog.Int("pages", pages),
		slog.Int("items", len(out.ids)))
	return out, nil
}

// toItem converts a record's JSON into a DynamoDB item tagged with its type
// and storage id.
func toItem(entityName, storageID string, data []byte) (map[string]types.AttributeValue, error) {
	// json.Number values encode as N attributes without a float64 round trip.
	doc, err := docquery.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", entityName, storageID, err)
	}
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s %s: %w", entityName, storageID, err)
	}
	item[EntityTypeAttr] = &types.AttributeValueMemberS{Value: entityName}
	item[StorageIDAttr] = &types.AttributeValueMemberS{Value: storageID}
	return item, nil
}

// fromItem reverses toItem, dropping the attributes the store added.
func fromItem(entityName string, item map[string]types.AttributeValue) (string, docquery.Doc, []byte, error) {
	var storageID string
	attr, ok := item[StorageIDAttr]
	if !ok {
		return "", nil, nil, fmt.Errorf("missing %s attribute in %s item", StorageIDAttr, entityName)
	}
	if err := attributevalue.Unmarshal(attr, &storageID); err != nil {
		return "", nil, nil, fmt.Errorf("failed to unmarshal %s: %w", StorageIDAttr, err)
	}

	var raw map[string]any
	err := attributevalue.UnmarshalMapWithOptions(item, &raw, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to unmarshal %s %s: %w", entityName, storageID, err)
	}
	doc := jsonNumbers(raw).(map[string]any)
	delete(doc, EntityTypeAttr)
	delete(doc, StorageIDAttr)
	for name := range keyMapFor(entityName) {
		delete(doc, name)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", nil, nil, fmt.Errorf("encode %s %s: %w", entityName, storageID, err)
	}
	return storageID, doc, data, nil
}

// jsonNumbers replaces attributevalue.Number with json.Number throughout v,
// so numbers encode back to JSON as number literals with every digit kept.
func jsonNumbers(v any) any {
	switch tv := v.(type) {
	case attributevalue.Number:
		return json.Number(tv)
	case map[string]any:
		for k, e := range tv {
			tv[k] = jsonNumbers(e)
		}
	case []any:
		for i, e := range tv {
			tv[i] = jsonNumbers(e)
		}
	}
	return v
}
