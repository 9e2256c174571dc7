package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare id",
			ref:      "dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "bare id with underscore and dash",
			ref:      "a_b-C123456",
			expected: "a_b-C123456",
		},
		{
			name:     "full watch URL",
			ref:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "watch URL with extra params",
			ref:      "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42s",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "short URL",
			ref:      "https://youtu.be/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "short URL with timestamp",
			ref:      "https://youtu.be/dQw4w9WgXcQ?t=10",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "embed URL",
			ref:      "https://www.youtube.com/embed/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "shorts URL",
			ref:      "https://www.youtube.com/shorts/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "URL without scheme",
			ref:      "youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:    "empty string",
			ref:     "",
			wantErr: true,
		},
		{
			name:    "too short id",
			ref:     "dQw4w9WgXc",
			wantErr: true,
		},
		{
			name:    "too long id",
			ref:     "dQw4w9WgXcQQ",
			wantErr: true,
		},
		{
			name:    "invalid characters",
			ref:     "dQw4w9WgX!Q",
			wantErr: true,
		},
		{
			name:    "unrelated URL",
			ref:     "https://example.com/watch?v=dQw4w9WgXcQ",
			wantErr: true,
		},
		{
			name:    "watch URL with malformed id",
			ref:     "https://www.youtube.com/watch?v=short",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ExtractID(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidReference)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestExtractID_URLAndBareIDAgree(t *testing.T) {
	// A full watch URL and its bare id must extract to the same string.
	fromURL, err := ExtractID("https://www.youtube.com/watch?v=DXOPAHGOmL4")
	assert.NoError(t, err)

	fromID, err := ExtractID("DXOPAHGOmL4")
	assert.NoError(t, err)

	assert.Equal(t, fromID, fromURL)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("7WXEKPmpWQ4"))
	assert.NoError(t, Validate("https://youtu.be/7WXEKPmpWQ4"))
	assert.Error(t, Validate("not a video"))
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURL("dQw4w9WgXcQ"))
}
