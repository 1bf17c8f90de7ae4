package roster

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAvatar(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		wantErr     bool
	}{
		{"jpeg ok", "photo.jpg", "image/jpeg", 1024, false},
		{"png ok", "photo.png", "image/png", 1024, false},
		{"gif ok", "anim.gif", "image/gif", 1024, false},
		{"uppercase extension ok", "PHOTO.JPEG", "image/jpeg", 1024, false},
		{"content type with params ok", "photo.png", "image/png; charset=binary", 1024, false},
		{"exactly at ceiling ok", "photo.jpg", "image/jpeg", MaxAvatarSize, false},
		{"wrong extension", "notes.txt", "text/plain", 10, true},
		{"pdf masquerading with image extension", "doc.jpg", "application/pdf", 10, true},
		{"image content type with bad extension", "photo.bmp", "image/png", 10, true},
		{"svg not in allow-list", "logo.svg", "image/svg+xml", 10, true},
		{"no extension", "photo", "image/jpeg", 10, true},
		{"oversize", "big.jpg", "image/jpeg", MaxAvatarSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAvatar(tt.filename, tt.contentType, tt.size)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, EINVALID, ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAvatarKey(t *testing.T) {
	before := time.Now().UnixMilli()
	key := AvatarKey("42", "Portrait.JPG")
	after := time.Now().UnixMilli()

	require.True(t, strings.HasPrefix(key, "42_"), "key %q should start with the student id", key)
	require.True(t, strings.HasSuffix(key, ".jpg"), "key %q should carry the lowercased extension", key)

	ts, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(key, "42_"), ".jpg"), 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
}

func TestBatchDeleteError(t *testing.T) {
	ok := []DeleteResult{{ID: "a"}, {ID: "b"}}
	assert.NoError(t, BatchDeleteError(ok))

	partial := []DeleteResult{{ID: "a"}, {ID: "b", Err: Internal("delete failed", nil)}}
	err := BatchDeleteError(partial)
	require.Error(t, err)
	assert.Equal(t, EINTERNAL, ErrorCode(err))
	assert.Contains(t, err.Error(), "1 of 2")
}
