package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "ReviewCreated", generateKeyFromPath("events/review_created.json"))
	assert.Equal(t, "ReviewSubmit", generateKeyFromPath("requests/review_submit.json"))
	assert.Equal(t, "ListingRecordReceived", generateKeyFromPath("events/listing_record_received.json"))
}

func TestValidateReviewSubmit(t *testing.T) {
	valid := []byte(`{"author_id":"0ae61a9e-4d54-4f6a-9a0c-9f8a4f1a2b3c","rating":5,"comment":"ok"}`)
	assert.NoError(t, Validate("ReviewSubmit", valid))

	tests := []struct {
		name    string
		payload string
	}{
		{"рейтинг вне диапазона", `{"author_id":"0ae61a9e-4d54-4f6a-9a0c-9f8a4f1a2b3c","rating":6}`},
		{"без автора", `{"rating":4}`},
		{"лишнее поле", `{"author_id":"0ae61a9e-4d54-4f6a-9a0c-9f8a4f1a2b3c","rating":4,"extra":1}`},
		{"не JSON", `{"rating":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate("ReviewSubmit", []byte(tt.payload)))
		})
	}
}

func TestValidateListingRecordReceived(t *testing.T) {
	// Поля неустойчивой формы: цена строкой, картинки строкой с JSON
	payload := []byte(`{
		"id": 42,
		"price": "P 1,250,000",
		"images": "[\"a.jpg\",\"b.jpg\"]",
		"latitude": "0",
		"longitude": "25.92"
	}`)
	assert.NoError(t, Validate("ListingRecordReceived", payload))

	assert.Error(t, Validate("ListingRecordReceived", []byte(`{"title":"no id"}`)))
}

func TestValidateUnknownSchema(t *testing.T) {
	assert.Error(t, Validate("Nonexistent", []byte(`{}`)))
}
