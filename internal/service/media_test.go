package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagecall/internal/apperror"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "youtube watch link",
			raw:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "youtube without www",
			raw:  "https://youtube.com/watch?v=abc123",
			want: "https://www.youtube.com/embed/abc123",
		},
		{
			name: "youtu.be short link",
			raw:  "https://youtu.be/dQw4w9WgXcQ",
			want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "vimeo link",
			raw:  "https://vimeo.com/123456789",
			want: "https://player.vimeo.com/video/123456789",
		},
		{
			name: "youtube embed passes through",
			raw:  "https://www.youtube.com/embed/abc123",
			want: "https://www.youtube.com/embed/abc123",
		},
		{
			name: "generic https passes through",
			raw:  "https://example.com/reel.mp4",
			want: "https://example.com/reel.mp4",
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  https://example.com/reel.mp4  ",
			want: "https://example.com/reel.mp4",
		},
		{name: "empty", raw: "", wantErr: true},
		{name: "blank", raw: "   ", wantErr: true},
		{name: "unsupported scheme", raw: "ftp://example.com/reel.mp4", wantErr: true},
		{name: "no host", raw: "https:///reel.mp4", wantErr: true},
		{name: "youtu.be without id", raw: "https://youtu.be/", wantErr: true},
		{name: "vimeo without id", raw: "https://vimeo.com/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMediaDelete_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewMediaService(db, testLogger())
	ctx := context.Background()

	m, err := svc.Create(ctx, "owner", "https://vimeo.com/42")
	require.NoError(t, err)
	assert.Equal(t, "https://player.vimeo.com/video/42", m.URL)

	assert.ErrorIs(t, svc.Delete(ctx, "stranger", m.ID), apperror.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, "owner", m.ID))

	_, err = svc.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMediaRelease_SkipsOwnerCheck(t *testing.T) {
	db := newTestDB(t)
	svc := NewMediaService(db, testLogger())
	ctx := context.Background()

	m, err := svc.Create(ctx, "owner", "https://example.com/headshot.jpg")
	require.NoError(t, err)

	require.NoError(t, svc.Release(ctx, m.ID))

	_, err = svc.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
