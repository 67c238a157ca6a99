package layout

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/roomeditor/pkg/errors"
)

func TestEncodeDecode(t *testing.T) {
	l := testLayout("living", time.Hour, 2)
	var buf bytes.Buffer
	if err := Encode(&buf, l); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Metadata.ID != l.Metadata.ID || len(got.Data.Items) != 2 {
		t.Errorf("Decode() = %+v, want id %s with 2 items", got.Metadata, l.Metadata.ID)
	}
	if got.Metadata.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", got.Metadata.ItemCount)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"missing name", `{"metadata":{"id":"a"},"data":{"items":[]}}`},
		{"item without id", `{"metadata":{"id":"a","name":"x"},"data":{"items":[{"name":"chair"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidLayout) {
				t.Errorf("Decode() error = %v, want %s", err, errors.ErrCodeInvalidLayout)
			}
		})
	}
}
