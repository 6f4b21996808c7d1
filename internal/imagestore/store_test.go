package imagestore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	calls   []string
	missing map[string]bool
	fail    map[string]bool
}

func (f *fakeStore) Upload(context.Context, []byte, string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeStore) Delete(_ context.Context, u string) (bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, u)
	f.mu.Unlock()
	if f.fail[u] {
		return false, errors.New("host down")
	}
	return !f.missing[u], nil
}

func TestDeleteAll_CountsAndNeverFails(t *testing.T) {
	fs := &fakeStore{
		missing: map[string]bool{"b": true},
		fail:    map[string]bool{"c": true},
	}
	before := testutil.ToFloat64(deletions.WithLabelValues("deleted"))
	beforeErr := testutil.ToFloat64(deletions.WithLabelValues("error"))

	res := DeleteAll(context.Background(), fs, []string{"a", "b", "c", "d", "a", ""})

	assert.Equal(t, 2, res.Deleted)
	sort.Strings(res.Failed)
	assert.Equal(t, []string{"b", "c"}, res.Failed)

	sort.Strings(fs.calls)
	assert.Equal(t, []string{"a", "b", "c", "d"}, fs.calls, "each distinct url is attempted exactly once")

	assert.Equal(t, before+2, testutil.ToFloat64(deletions.WithLabelValues("deleted")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(deletions.WithLabelValues("error")))
}

func TestDeleteAll_EmptyOrNilStore(t *testing.T) {
	assert.Equal(t, DeleteResult{}, DeleteAll(context.Background(), &fakeStore{}, nil))
	assert.Equal(t, DeleteResult{}, DeleteAll(context.Background(), nil, []string{"a"}))
}

func TestDiff(t *testing.T) {
	old := []string{"a", "b", "c", "b", "d"}
	assert.Equal(t, []string{"b", "d"}, Diff(old, []string{"a", "c"}))
	assert.Nil(t, Diff(old, old))
	assert.Equal(t, []string{"x"}, Diff([]string{"x"}, nil))
}

func TestDedupe(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, dedupe([]string{"", "a", "b", "a"}))
}
