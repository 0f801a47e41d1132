package docmodel

import (
	"context"
	"time"
)

// Document is the ingestion-owned record. Immutable once created,
// except that deleting it cascades to its chunks in the vector index.
type Document struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// DocChunk is one fixed window of a document's text. Index is the
// position among surviving (non-blank) windows, contiguous from 0.
// The index is stored as payload metadata and never inferred from
// upsert completion order.
type DocChunk struct {
	ChunkId  string `json:"chunk_id"`
	DocId    string `json:"source_doc_id"`
	DocTitle string `json:"doc_name"`
	Index    int    `json:"chunk_index"`
	Text     string `json:"content"`
}

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	TXT  DocType = "TXT"
	ERR  DocType = "ERROR"
)

type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, bool)
	ListDocuments(ctx context.Context) ([]Document, error)
	DeleteDocument(ctx context.Context, id string)
}
