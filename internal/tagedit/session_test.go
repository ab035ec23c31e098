package tagedit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crm-segments/internal/domain"
)

// fakeUpdater 可编排的后端：按 payload 字段名决定接受/拒绝
type fakeUpdater struct {
	mu          sync.Mutex
	rejectSlugs bool
	rejectTags  bool
	calls       []map[string][]string
	inFlight    chan struct{} // 非 nil 时第一次调用会阻塞在这里
	released    chan struct{}
}

func (f *fakeUpdater) SubmitTagUpdate(ctx context.Context, customerID int64, payload any) error {
	raw, _ := json.Marshal(payload)
	var fields map[string][]string
	_ = json.Unmarshal(raw, &fields)

	f.mu.Lock()
	f.calls = append(f.calls, fields)
	blocker := f.inFlight
	f.inFlight = nil
	f.mu.Unlock()

	if blocker != nil {
		close(f.released)
		<-blocker
	}

	if _, ok := fields["tag_slugs"]; ok && f.rejectSlugs {
		return errors.New("unknown field tag_slugs")
	}
	if _, ok := fields["tags"]; ok && f.rejectTags {
		return errors.New("unknown field tags")
	}
	return nil
}

func record() domain.CustomerRecord {
	return domain.CustomerRecord{ID: 7, Name: "Alice", Tags: []domain.Tag{
		{Name: "Gold Interested", Slug: "gold-interested"},
		{Name: "New Lead", Slug: "new-lead"},
	}}
}

func TestOpen_SnapshotsCurrentSlugs(t *testing.T) {
	sess := Open(record(), &fakeUpdater{}, zap.NewNop(), nil)
	require.Equal(t, StatusOpen, sess.Status())
	require.Equal(t, []string{"gold-interested", "new-lead"}, sess.Slugs())
	require.NotEmpty(t, sess.ID)
}

func TestToggle_LocalOnly(t *testing.T) {
	upd := &fakeUpdater{}
	sess := Open(record(), upd, zap.NewNop(), nil)

	require.NoError(t, sess.Toggle("wedding-buyer"))
	require.NoError(t, sess.Toggle("new-lead")) // 移除
	require.Equal(t, []string{"gold-interested", "wedding-buyer"}, sess.Slugs())
	require.Empty(t, upd.calls, "toggling must not hit the network")
}

func TestToggle_ValidatesAdditionsAgainstTaxonomy(t *testing.T) {
	rec := record()
	// 记录可能携带目录外的历史标签
	rec.Tags = append(rec.Tags, domain.Tag{Name: "Legacy Import", Slug: "legacy-import"})
	sess := Open(rec, &fakeUpdater{}, zap.NewNop(), nil)

	require.ErrorIs(t, sess.Toggle("totally-made-up"), ErrUnknownTag)
	require.Equal(t, []string{"gold-interested", "legacy-import", "new-lead"}, sess.Slugs())

	// 移除目录外 slug 允许，但移除后无法再加回
	require.NoError(t, sess.Toggle("legacy-import"))
	require.ErrorIs(t, sess.Toggle("legacy-import"), ErrUnknownTag)
	require.Equal(t, []string{"gold-interested", "new-lead"}, sess.Slugs())
}

func TestSave_PreferredSchemaSucceeds(t *testing.T) {
	upd := &fakeUpdater{}
	refetched := 0
	sess := Open(record(), upd, zap.NewNop(), func(ctx context.Context) { refetched++ })

	require.NoError(t, sess.Save(context.Background()))
	require.Equal(t, StatusClosed, sess.Status())
	require.Len(t, upd.calls, 1)
	require.Contains(t, upd.calls[0], "tag_slugs")
	require.Equal(t, 1, refetched)
}

func TestSave_FallbackNegotiation(t *testing.T) {
	upd := &fakeUpdater{rejectSlugs: true}
	refetched := 0
	sess := Open(record(), upd, zap.NewNop(), func(ctx context.Context) { refetched++ })

	require.NoError(t, sess.Save(context.Background()))
	require.Equal(t, StatusClosed, sess.Status())
	require.NoError(t, sess.LastError())

	// 恰好两次请求：先 tag_slugs 被拒，再 tags 成功
	require.Len(t, upd.calls, 2)
	require.Contains(t, upd.calls[0], "tag_slugs")
	require.Contains(t, upd.calls[1], "tags")
	require.Equal(t, []string{"gold-interested", "new-lead"}, upd.calls[1]["tags"])

	require.Equal(t, 1, refetched, "exactly one re-fetch on success")
}

func TestSave_BothSchemasFailStaysOpen(t *testing.T) {
	upd := &fakeUpdater{rejectSlugs: true, rejectTags: true}
	refetched := 0
	sess := Open(record(), upd, zap.NewNop(), func(ctx context.Context) { refetched++ })

	err := sess.Save(context.Background())
	require.Error(t, err)
	require.Equal(t, StatusOpen, sess.Status(), "session stays open for retry/cancel")
	require.Error(t, sess.LastError())
	require.Len(t, upd.calls, 2, "no third attempt after schema B")
	require.Zero(t, refetched, "no re-fetch on failure")

	// 失败后可以继续编辑并重试
	require.NoError(t, sess.Toggle("wedding-buyer"))
}

func TestSave_ReentrantSaveIgnored(t *testing.T) {
	blocker := make(chan struct{})
	upd := &fakeUpdater{inFlight: blocker, released: make(chan struct{})}
	sess := Open(record(), upd, zap.NewNop(), nil)

	done := make(chan error, 1)
	go func() { done <- sess.Save(context.Background()) }()
	<-upd.released // 第一次保存已在途

	require.ErrorIs(t, sess.Save(context.Background()), ErrSaveInFlight)

	close(blocker)
	require.NoError(t, <-done)
	require.Equal(t, StatusClosed, sess.Status())
	require.Len(t, upd.calls, 1, "second save must not be queued")
}

func TestCancel_DiscardsLocalChanges(t *testing.T) {
	upd := &fakeUpdater{}
	sess := Open(record(), upd, zap.NewNop(), nil)

	require.NoError(t, sess.Toggle("wedding-buyer"))
	sess.Cancel()
	require.Equal(t, StatusClosed, sess.Status())
	require.Empty(t, upd.calls)
	require.ErrorIs(t, sess.Toggle("anything"), ErrNotOpen)
	require.ErrorIs(t, sess.Save(context.Background()), ErrNotOpen)
}
