package storage

import (
	"path/filepath"
	"testing"
	"time"

	"clob_go/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *Storage {
	dbName := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	s := &Storage{db: db}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func testBook(hash string) *domain.OrderBookSummary {
	return &domain.OrderBookSummary{
		Market:    "0xm",
		AssetID:   "123",
		Timestamp: "1700000000000",
		Hash:      hash,
		Bids:      []domain.OrderSummary{{Price: decimal.RequireFromString("0.49"), Size: decimal.RequireFromString("100")}},
		Asks:      []domain.OrderSummary{{Price: decimal.RequireFromString("0.51"), Size: decimal.RequireFromString("12.5")}},
	}
}

func TestBookSnapshots(t *testing.T) {
	s := setupTestDB(t)

	// 1. Missing
	snap, err := s.LatestBookSnapshot("123")
	if err != nil {
		t.Fatalf("LatestBookSnapshot failed: %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil for unknown token")
	}

	// 2. Save two, newest wins
	if err := s.SaveBookSnapshot("123", testBook("0x1")); err != nil {
		t.Fatalf("SaveBookSnapshot failed: %v", err)
	}
	if err := s.SaveBookSnapshot("123", testBook("0x2")); err != nil {
		t.Fatalf("SaveBookSnapshot failed: %v", err)
	}

	snap, err = s.LatestBookSnapshot("123")
	if err != nil {
		t.Fatalf("LatestBookSnapshot failed: %v", err)
	}
	if snap == nil || snap.Hash != "0x2" {
		t.Fatalf("expected newest snapshot 0x2, got %+v", snap)
	}

	// 3. Levels round-trip with exact decimals
	if len(snap.Asks) != 1 || !snap.Asks[0].Size.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("asks not preserved: %+v", snap.Asks)
	}
	if snap.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestBookSnapshots_KeyedByRequestedToken(t *testing.T) {
	s := setupTestDB(t)

	book := testBook("0x3")
	book.AssetID = ""
	if err := s.SaveBookSnapshot("789", book); err != nil {
		t.Fatalf("SaveBookSnapshot failed: %v", err)
	}

	snap, err := s.LatestBookSnapshot("789")
	if err != nil {
		t.Fatalf("LatestBookSnapshot failed: %v", err)
	}
	if snap == nil || snap.Hash != "0x3" {
		t.Fatalf("expected snapshot 0x3 under token 789, got %+v", snap)
	}
}

func TestQuotes(t *testing.T) {
	s := setupTestDB(t)

	now := time.Now()
	for i, price := range []string{"0.50", "0.51", "0.52"} {
		q := domain.Quote{
			TokenID:  "123",
			Side:     domain.SideBuy,
			Amount:   decimal.RequireFromString("60.00"),
			Price:    decimal.RequireFromString(price),
			QuotedAt: now.Add(time.Duration(i) * time.Second),
		}
		if err := s.SaveQuote(q); err != nil {
			t.Fatalf("SaveQuote failed: %v", err)
		}
	}
	if err := s.SaveQuote(domain.Quote{TokenID: "456", Side: domain.SideSell, QuotedAt: now}); err != nil {
		t.Fatalf("SaveQuote failed: %v", err)
	}

	quotes, err := s.ListQuotes("123", 2)
	if err != nil {
		t.Fatalf("ListQuotes failed: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if !quotes[0].Price.Equal(decimal.RequireFromString("0.52")) {
		t.Errorf("expected newest price 0.52 first, got %s", quotes[0].Price)
	}
	if quotes[0].Side != "BUY" {
		t.Errorf("expected side BUY, got %s", quotes[0].Side)
	}

	all, err := s.ListQuotes("123", 0)
	if err != nil || len(all) != 3 {
		t.Errorf("expected 3 quotes, got %d (%v)", len(all), err)
	}
}

func TestNewStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clob.db")

	s, err := NewStorage(path)
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	defer s.Close()

	if err := s.SaveBookSnapshot("123", testBook("0x9")); err != nil {
		t.Fatalf("SaveBookSnapshot failed: %v", err)
	}
}
