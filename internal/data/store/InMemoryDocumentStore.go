package store

import (
	"context"
	"sort"
	"sync"

	"github.com/anveshk/workflowgen/internal/domain/docmodel"
)

type InMemoryDocumentStore struct {
	docMutex *sync.RWMutex
	docMap   map[string]docmodel.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docMutex: new(sync.RWMutex),
		docMap:   make(map[string]docmodel.Document),
	}
}

func (store *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docmodel.Document) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	store.docMap[doc.Id] = doc
	return nil
}

func (store *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docmodel.Document, bool) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()
	doc, found := store.docMap[id]
	return doc, found
}

func (store *InMemoryDocumentStore) ListDocuments(ctx context.Context) ([]docmodel.Document, error) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()
	docs := make([]docmodel.Document, 0, len(store.docMap))
	for _, doc := range store.docMap {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.Before(docs[j].CreatedAt) })
	return docs, nil
}

func (store *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	delete(store.docMap, id)
}
