package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/worklog/internal/mock"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepo_FnOverridesBase(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("store down")
	m := &mock.SessionRepo{
		Base: repository.NewMemorySessionRepo(),
		ExistsActiveByOwnerFn: func(ctx context.Context, ownerID string) (bool, error) {
			return false, wantErr
		},
	}

	_, err := m.ExistsActiveByOwner(context.Background(), "alice")
	assert.ErrorIs(t, err, wantErr)

	// Unset methods fall through to the base store.
	page, err := m.ListByOwner(context.Background(), "alice", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}

func TestSessionRepo_PanicsWithoutFnOrBase(t *testing.T) {
	t.Parallel()
	m := &mock.SessionRepo{}
	assert.Panics(t, func() {
		_, _ = m.FindByID(context.Background(), "x")
	})
}
