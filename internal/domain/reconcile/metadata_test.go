package reconcile

import (
	"testing"
)

func TestMergeMetadata(t *testing.T) {
	tests := []struct {
		name    string
		stored  map[string]string
		fetched map[string]string
		want    map[string]string
	}{
		{
			name: "Both empty returns nil",
		},
		{
			name:    "Fetched only",
			fetched: map[string]string{"risk_score": "low"},
			want:    map[string]string{"risk_score": "low"},
		},
		{
			name:   "Stored keys survive",
			stored: map[string]string{"campaign": "spring"},
			fetched: map[string]string{
				"risk_score": "low",
			},
			want: map[string]string{"campaign": "spring", "risk_score": "low"},
		},
		{
			name:    "Fetched wins on conflict",
			stored:  map[string]string{"risk_score": "high", "campaign": "spring"},
			fetched: map[string]string{"risk_score": "low"},
			want:    map[string]string{"risk_score": "low", "campaign": "spring"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeMetadata(tt.stored, tt.fetched)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d keys, got %d", len(tt.want), len(got))
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestMergeMetadataDoesNotMutateInputs(t *testing.T) {
	stored := map[string]string{"a": "1"}
	fetched := map[string]string{"a": "2"}

	MergeMetadata(stored, fetched)

	if stored["a"] != "1" {
		t.Error("stored map was mutated")
	}
	if fetched["a"] != "2" {
		t.Error("fetched map was mutated")
	}
}
