package db

import (
	"testing"
)

func TestRecordScan(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := db.RecordScan("https://shop.example.com/item", "shop.example.com", 3, 2)
	if err != nil {
		t.Fatalf("RecordScan() error = %v", err)
	}
	second, err := db.RecordScan("", "", 0, 0)
	if err != nil {
		t.Fatalf("RecordScan() without URL error = %v", err)
	}
	if second <= first {
		t.Errorf("scan IDs not increasing: %d then %d", first, second)
	}

	scans, err := db.ListScans(10)
	if err != nil {
		t.Fatalf("ListScans() error = %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("ListScans() returned %d scans, want 2", len(scans))
	}
	if scans[0].ScanID != second {
		t.Errorf("ListScans()[0] = %d, want newest scan %d", scans[0].ScanID, second)
	}
	if scans[1].Domain != "shop.example.com" || scans[1].Matches != 3 || scans[1].Annotated != 2 {
		t.Errorf("ListScans()[1] = %+v", scans[1])
	}
	if scans[1].ScannedAt.IsZero() {
		t.Error("ScannedAt not populated")
	}

	limited, err := db.ListScans(1)
	if err != nil {
		t.Fatalf("ListScans(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListScans(1) returned %d scans", len(limited))
	}
}

func TestRecordAnnotation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	scanID, err := db.RecordScan("https://example.com", "example.com", 2, 2)
	if err != nil {
		t.Fatalf("RecordScan() error = %v", err)
	}

	records := []AnnotationRecord{
		{ScanID: scanID, AmountRaw: "1.234,56", Amount: "1234.56", Currency: "EUR", Converted: 1234.56, TargetCurrency: "EUR", Label: "6 days 1 hours"},
		{ScanID: scanID, AmountRaw: "20", Amount: "20", Currency: "USD", Converted: 18.4, TargetCurrency: "EUR", Label: "55 minutes"},
	}
	for _, r := range records {
		if _, err := db.RecordAnnotation(r); err != nil {
			t.Fatalf("RecordAnnotation() error = %v", err)
		}
	}

	got, err := db.GetAnnotations(scanID)
	if err != nil {
		t.Fatalf("GetAnnotations() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetAnnotations() returned %d, want 2", len(got))
	}
	if got[0].Amount != "1234.56" || got[0].AmountRaw != "1.234,56" {
		t.Errorf("first annotation = %+v", got[0])
	}
	if got[1].Label != "55 minutes" || got[1].Currency != "USD" {
		t.Errorf("second annotation = %+v", got[1])
	}

	if _, err := db.RecordAnnotation(AnnotationRecord{ScanID: 9999, AmountRaw: "1", Amount: "1", Currency: "USD"}); err == nil {
		t.Error("RecordAnnotation() with unknown scan should violate the foreign key")
	}
}
