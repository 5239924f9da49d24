package tasks_test

import (
	"context"
	"testing"

	"github.com/Aidin1998/minitask/common/errors"
	"github.com/Aidin1998/minitask/internal/tasks"
	"github.com/Aidin1998/minitask/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) *tasks.Service {
	return tasks.NewService(zap.NewNop(), testutil.NewTaskDB(t))
}

func TestListEmpty(t *testing.T) {
	svc := newService(t)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCreateThenList(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "buy milk")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "buy milk")
	require.NoError(t, err)

	assert.Equal(t, "buy milk", first.Title)
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	ids := make([]int64, 0, len(list))
	for _, task := range list {
		assert.Equal(t, "buy milk", task.Title)
		ids = append(ids, task.ID)
	}
	assert.ElementsMatch(t, []int64{first.ID, second.ID}, ids)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newService(t)

	for _, title := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), title)
		require.Error(t, err)
		assert.Equal(t, errors.KindValidation, errors.KindOf(err))
		assert.Equal(t, "title is required", errors.PublicMessage(err))
	}
}

func TestDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "walk dog")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, task.ID))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.Delete(ctx, task.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.NotFound)
}

func TestDeleteMissing(t *testing.T) {
	svc := newService(t)

	err := svc.Delete(context.Background(), 999999)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
	assert.Equal(t, "Task 999999 not found", errors.PublicMessage(err))
}

func TestClosedDatabase(t *testing.T) {
	svc := tasks.NewService(zap.NewNop(), testutil.ClosedDB(t))
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.Error(t, err)
	_, err = svc.Create(ctx, "x")
	assert.Error(t, err)
	err = svc.Delete(ctx, 1)
	assert.Error(t, err)
	assert.NotEqual(t, errors.KindNotFound, errors.KindOf(err))
	assert.Error(t, svc.Ping(ctx))
}
