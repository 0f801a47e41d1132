package rag_test

import (
	"context"
	"sync"
	"time"

	"github.com/anveshk/workflowgen/internal/domain/docmodel"
	"github.com/anveshk/workflowgen/internal/rag/embedding"
	"github.com/anveshk/workflowgen/internal/rag/llm"
	"github.com/anveshk/workflowgen/internal/rag/vectorDB"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnTopK             func(ctx context.Context, vector []float32, k int, docId string) ([]vectorDB.Match, error)
	OnGetCachedAnswer  func(ctx context.Context, queryVector []float32) (string, bool, error)
	OnSaveToCache      func(ctx context.Context, id string, vector []float32, answer string) error
	OnCreateCollection func(ctx context.Context, name string) error
	OnUpsertBatch      func(ctx context.Context, name string, chunks []docmodel.DocChunk, vectors [][]float32) error
	OnDeleteByDocument func(ctx context.Context, docId string) error
}

func (m *MockVectorDB) TopK(ctx context.Context, v []float32, k int, docId string) ([]vectorDB.Match, error) {
	if m.OnTopK != nil {
		return m.OnTopK(ctx, v, k, docId)
	}
	return []vectorDB.Match{
		{ChunkId: "c-0", DocId: "doc-1", DocTitle: "manual", ChunkIndex: 0, Text: "default context", Distance: 0.1},
	}, nil
}

func (m *MockVectorDB) GetCachedAnswer(ctx context.Context, v []float32) (string, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, v)
	}
	return "", false, nil
}

func (m *MockVectorDB) SaveToCache(ctx context.Context, id string, v []float32, a string) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, id, v, a)
	}
	return nil
}

func (m *MockVectorDB) CreateCollection(ctx context.Context, name string) error {
	if m.OnCreateCollection != nil {
		return m.OnCreateCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, chunks []docmodel.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) DeleteByDocument(ctx context.Context, docId string) error {
	if m.OnDeleteByDocument != nil {
		return m.OnDeleteByDocument(ctx, docId)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string, kind embedding.Kind) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string, kind embedding.Kind) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text, kind)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Return dummy vectors matching chunk count
	return make([][]float32, len(chunks)), nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate           func(ctx context.Context, prompt string) (string, error)
	OnGenerateStructured func(ctx context.Context, prompt string) (llm.Decision, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) GenerateStructured(ctx context.Context, prompt string) (llm.Decision, error) {
	if m.OnGenerateStructured != nil {
		return m.OnGenerateStructured(ctx, prompt)
	}
	return llm.Decision{Category: "qa", Reasoning: "mocked"}, nil
}

// MockDocStore implements docmodel.DocumentStore in memory.
type MockDocStore struct {
	mu   sync.Mutex
	docs map[string]docmodel.Document
}

func NewMockDocStore(seed ...docmodel.Document) *MockDocStore {
	m := &MockDocStore{docs: map[string]docmodel.Document{}}
	for _, d := range seed {
		m.docs[d.Id] = d
	}
	return m
}

func (m *MockDocStore) SaveDocument(ctx context.Context, doc docmodel.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	m.docs[doc.Id] = doc
	return nil
}

func (m *MockDocStore) GetDocument(ctx context.Context, id string) (docmodel.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	return d, ok
}

func (m *MockDocStore) ListDocuments(ctx context.Context) ([]docmodel.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]docmodel.Document, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	return out, nil
}

func (m *MockDocStore) DeleteDocument(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
}
