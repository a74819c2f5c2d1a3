package recordschema

import (
	"encoding/json"
	"testing"
)

func TestValidateRawRecords_Valid(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`[
		{
			"document_number": "32025R0101",
			"title": "Commission Regulation on phosphate imports originating in Morocco",
			"publication_date": "2025-07-10",
			"author": "European Union",
			"form": "Regulation",
			"url": "https://eur-lex.europa.eu/legal-content/EN/TXT/?uri=CELEX:32025R0101",
			"scraped_at": "2025-07-15T10:00:00Z"
		},
		{
			"title": "Notice without a number"
		}
	]`)

	records, err := ValidateRawRecords(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].DocumentNumber != "32025R0101" {
		t.Fatalf("unexpected document number: %q", records[0].DocumentNumber)
	}
	if records[1].Title != "Notice without a number" {
		t.Fatalf("unexpected title: %q", records[1].Title)
	}
}

func TestValidateRawRecords_MissingTitle(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`[{"document_number": "32025R0101"}]`)
	if _, err := ValidateRawRecords(payload); err == nil {
		t.Fatalf("expected validation to fail without a title")
	}
}

func TestValidateRawRecords_UnknownKey(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`[{"title": "Valid title here", "surprise": true}]`)
	if _, err := ValidateRawRecords(payload); err == nil {
		t.Fatalf("expected unknown keys to be rejected")
	}
}

func TestValidateRawRecords_BadDocumentNumber(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`[{"title": "Valid title here", "document_number": "not-a-celex"}]`)
	if _, err := ValidateRawRecords(payload); err == nil {
		t.Fatalf("expected a malformed document number to be rejected")
	}
}

func TestValidateRawRecords_NotAnArray(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`{"title": "A single object"}`)
	if _, err := ValidateRawRecords(payload); err == nil {
		t.Fatalf("expected a non-array payload to be rejected")
	}
}

func TestValidateRawRecords_TrailingContent(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`[] []`)
	if _, err := ValidateRawRecords(payload); err == nil {
		t.Fatalf("expected trailing content to be rejected")
	}
}
