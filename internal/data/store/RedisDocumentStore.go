package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/data/redisStore"
	"github.com/anveshk/workflowgen/internal/domain/docmodel"
	"github.com/anveshk/workflowgen/pkg/applog"
)

const documentIndexKey = "documents:index"

// RedisDocumentStore keeps one JSON record per document plus a set of
// ids so listing never scans the keyspace. Records carry no TTL; a
// document lives until it is deleted.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *applog.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if backing == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  backing,
		logger: applog.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docmodel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docId", doc.Id)

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err = s.store.Set(ctx, doc.Id, data, 0); err != nil {
		return err
	}
	if err = s.store.IndexAdd(ctx, documentIndexKey, doc.Id); err != nil {
		return err
	}
	log.Debug("Saved document to redis")
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docmodel.Document, bool) {
	var doc docmodel.Document
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docId", id)

	val, err := s.store.Get(ctx, id)
	if s.store.IsNil(err) {
		return doc, false
	} else if err != nil {
		log.Error("Error reading document from redis", "error", err)
		return doc, false
	}

	if err = json.Unmarshal([]byte(val), &doc); err != nil {
		log.Error("Error unmarshalling document", "error", err)
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context) ([]docmodel.Document, error) {
	ids, err := s.store.IndexMembers(ctx, documentIndexKey)
	if err != nil {
		return nil, err
	}

	docs := make([]docmodel.Document, 0, len(ids))
	for _, id := range ids {
		if doc, found := s.GetDocument(ctx, id); found {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs, nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) {
	if err := s.store.Del(ctx, id); err != nil {
		s.logger.Error("Error deleting document from redis", "docId", id, "error", err)
		return
	}
	if err := s.store.IndexRemove(ctx, documentIndexKey, id); err != nil {
		s.logger.Error("Error removing document from index", "docId", id, "error", err)
	}
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: applog.NewLogger("test redis"),
	}
}
