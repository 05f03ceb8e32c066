package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergePermissions(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		incoming string
		want     string
		skipped  int
	}{
		{
			name:     "union keeps existing order",
			existing: `{"allow":["b","a"],"deny":["x"]}`,
			incoming: `{"allow":["a","c","b","d"],"deny":["y","x"]}`,
			want:     `{"allow":["b","a","c","d"],"deny":["x","y"]}`,
		},
		{
			name:     "missing lists are empty",
			existing: `{}`,
			incoming: `{"deny":["y","y"],"ask":["Bash(git push:*)"]}`,
			want:     `{"deny":["y"],"ask":["Bash(git push:*)"]}`,
		},
		{
			name:     "nothing removed",
			existing: `{"allow":["a"],"deny":["x"]}`,
			incoming: `{"allow":[]}`,
			want:     `{"allow":["a"],"deny":["x"]}`,
		},
		{
			name:     "existing duplicates collapse to the first",
			existing: `{"allow":["a","a"]}`,
			incoming: `{"allow":["b"]}`,
			want:     `{"allow":["a","b"]}`,
		},
		{
			name:     "existing duplicates collapse around new rules",
			existing: `{"deny":["x","y","x"]}`,
			incoming: `{"deny":["z","y"]}`,
			want:     `{"deny":["x","y","z"]}`,
		},
		{
			name:     "other keys keep existing value",
			existing: `{"defaultMode":"plan"}`,
			incoming: `{"defaultMode":"acceptEdits","additionalDirectories":["../shared"]}`,
			want:     `{"defaultMode":"plan","additionalDirectories":["../shared"]}`,
		},
		{
			name:     "non-string rules deduplicated by value",
			existing: `{"allow":[{"rule":1}]}`,
			incoming: `{"allow":[{"rule":1},7,7]}`,
			want:     `{"allow":[{"rule":1},7]}`,
		},
		{
			name:     "new list not an array",
			existing: `{"allow":["a"]}`,
			incoming: `{"allow":"b"}`,
			want:     `{"allow":["a"]}`,
			skipped:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := mustObject(t, tt.existing)
			before := compactValue(t, existing)

			got, rep := MergePermissions(existing, mustObject(t, tt.incoming))

			assert.Equal(t, tt.want, compactValue(t, got))
			assert.Len(t, rep.Skipped, tt.skipped)
			assert.Equal(t, before, compactValue(t, existing))
		})
	}
}
