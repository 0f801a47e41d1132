package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/data/redisStore"
	"github.com/anveshk/workflowgen/internal/data/store"
	"github.com/anveshk/workflowgen/internal/domain/docmodel"
	"github.com/redis/go-redis/v9"
)

func TestRedisDocumentStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	docStore := store.TestDocumentStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	older := docmodel.Document{Id: "doc-a", Title: "first", Text: "aaa", CreatedAt: time.Now().Add(-time.Hour)}
	newer := docmodel.Document{Id: "doc-b", Title: "second", Text: "bbb", CreatedAt: time.Now()}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := docStore.SaveDocument(ctx, older); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
		if err := docStore.SaveDocument(ctx, newer); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		got, found := docStore.GetDocument(ctx, "doc-a")
		if !found {
			t.Fatal("Document was saved but not found in Redis")
		}
		if got.Title != "first" {
			t.Errorf("Title got %s, want first", got.Title)
		}
	})

	t.Run("List Is Ordered By Creation", func(t *testing.T) {
		docs, err := docStore.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("got %d documents, want 2", len(docs))
		}
		if docs[0].Id != "doc-a" || docs[1].Id != "doc-b" {
			t.Errorf("order got [%s %s], want [doc-a doc-b]", docs[0].Id, docs[1].Id)
		}
	})

	t.Run("Get Non-Existent Document", func(t *testing.T) {
		if _, found := docStore.GetDocument(ctx, "ghost-doc"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Removes Record And Index Entry", func(t *testing.T) {
		docStore.DeleteDocument(ctx, "doc-a")

		if mr.Exists("doc-a") {
			t.Error("Document still exists in Redis after delete")
		}

		docs, err := docStore.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 1 || docs[0].Id != "doc-b" {
			t.Errorf("index not pruned, got %v", docs)
		}
	})
}

func TestInMemoryDocumentStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	docStore := store.InitInMemoryDocumentStore()

	doc := docmodel.Document{Id: "mem-1", Title: "in memory", CreatedAt: time.Now()}
	if err := docStore.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	if _, found := docStore.GetDocument(ctx, "mem-1"); !found {
		t.Fatal("saved document not found")
	}

	docs, err := docStore.ListDocuments(ctx)
	if err != nil || len(docs) != 1 {
		t.Fatalf("ListDocuments got %v, %v", docs, err)
	}

	docStore.DeleteDocument(ctx, "mem-1")
	if _, found := docStore.GetDocument(ctx, "mem-1"); found {
		t.Error("document survived deletion")
	}
}
