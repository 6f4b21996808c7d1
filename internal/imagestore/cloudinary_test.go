package imagestore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudinary struct {
	uploaded  []byte
	upParams  uploader.UploadParams
	upResult  *uploader.UploadResult
	upErr     error
	destroyed []string
	result    string
	destErr   error
}

func (f *fakeCloudinary) Upload(_ context.Context, file interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
	f.upParams = p
	if r, ok := file.(io.Reader); ok {
		f.uploaded, _ = io.ReadAll(r)
	}
	return f.upResult, f.upErr
}

func (f *fakeCloudinary) Destroy(_ context.Context, p uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = append(f.destroyed, p.PublicID)
	if f.destErr != nil {
		return nil, f.destErr
	}
	return &uploader.DestroyResult{Result: f.result}, nil
}

func TestCloudinary_Upload(t *testing.T) {
	fake := &fakeCloudinary{upResult: &uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/stockrakh/inventory/x.jpg"}}
	c := newCloudinary(fake, "/stockrakh/", 0)

	u, err := c.Upload(context.Background(), []byte("jpeg-bytes"), "inventory")
	require.NoError(t, err)
	assert.Equal(t, fake.upResult.SecureURL, u)
	assert.Equal(t, "stockrakh/inventory", fake.upParams.Folder)
	assert.Equal(t, "image", fake.upParams.ResourceType)
	assert.Equal(t, []byte("jpeg-bytes"), fake.uploaded)
}

func TestCloudinary_UploadErrors(t *testing.T) {
	c := newCloudinary(&fakeCloudinary{upErr: errors.New("boom")}, "r", 0)
	_, err := c.Upload(context.Background(), nil, "inventory")
	assert.Error(t, err)

	c = newCloudinary(&fakeCloudinary{upResult: &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}}, "r", 0)
	_, err = c.Upload(context.Background(), nil, "inventory")
	assert.ErrorContains(t, err, "Invalid image file")

	c = newCloudinary(&fakeCloudinary{upResult: &uploader.UploadResult{}}, "r", 0)
	_, err = c.Upload(context.Background(), nil, "inventory")
	assert.Error(t, err)
}

func TestCloudinary_Delete(t *testing.T) {
	fake := &fakeCloudinary{result: "ok"}
	c := newCloudinary(fake, "stockrakh", 100)

	ok, err := c.Delete(context.Background(), "https://res.cloudinary.com/demo/image/upload/v1712/stockrakh/bills/abc.png")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"stockrakh/bills/abc"}, fake.destroyed)

	fake.result = "not found"
	ok, err = c.Delete(context.Background(), "https://res.cloudinary.com/demo/image/upload/stockrakh/gone.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Delete(context.Background(), "https://example.com/elsewhere.jpg")
	assert.ErrorIs(t, err, ErrForeignURL)

	fake.destErr = errors.New("timeout")
	_, err = c.Delete(context.Background(), "https://res.cloudinary.com/demo/image/upload/a.jpg")
	assert.Error(t, err)
}

func TestCloudinary_DeleteHonoursCancelledContext(t *testing.T) {
	c := newCloudinary(&fakeCloudinary{result: "ok"}, "r", 0.001)
	// drain the single token
	_, _ = c.Delete(context.Background(), "https://h/image/upload/a.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Delete(ctx, "https://h/image/upload/b.jpg")
	assert.Error(t, err)
}

func TestPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/d/image/upload/v123/stockrakh/inventory/p1.jpg": "stockrakh/inventory/p1",
		"https://res.cloudinary.com/d/image/upload/folder/name.with.dots.webp":      "folder/name.with.dots",
		"https://res.cloudinary.com/d/image/upload/v9/a.png?_a=xyz":                 "a",
	}
	for in, want := range cases {
		got, ok := PublicID(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "https://h/image/fetch/a.jpg", "https://h/image/upload/noext", "::"} {
		_, ok := PublicID(bad)
		assert.False(t, ok, bad)
	}
}
