package tagedit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crm-segments/internal/client"
	"crm-segments/internal/domain"
)

// Status 编辑会话状态
type Status string

const (
	StatusClosed Status = "closed"
	StatusOpen   Status = "open"
	StatusSaving Status = "saving"
)

var (
	// ErrSaveInFlight 已有一次保存在途（重复保存请求被忽略，不排队）
	ErrSaveInFlight = errors.New("save already in flight")
	// ErrNotOpen 会话不在可编辑状态
	ErrNotOpen = errors.New("session is not open")
	// ErrUnknownTag 新增的 slug 不在标签目录里
	ErrUnknownTag = errors.New("tag slug not in taxonomy")
)

// 两套候选 payload：后端实际接受哪个字段名无法静态确定
type payloadPreferred struct {
	TagSlugs []string `json:"tag_slugs"`
}

type payloadFallback struct {
	Tags []string `json:"tags"`
}

// Session 对单条客户记录的标签编辑会话
// Closed → Open → Saving → {Closed(成功) | Open+错误(失败)}
// 打开时快照记录当前 slug 集；Open 状态下的切换只改本地集合，不发请求
type Session struct {
	ID       string
	TargetID int64

	mu      sync.Mutex
	working map[string]struct{}
	status  Status
	lastErr error

	updater client.TagUpdater
	logger  *zap.Logger
	onSaved func(ctx context.Context) // 保存成功后触发全量重拉
}

// Open 基于目标记录当前标签建立会话
func Open(rec domain.CustomerRecord, updater client.TagUpdater, logger *zap.Logger, onSaved func(ctx context.Context)) *Session {
	working := make(map[string]struct{}, len(rec.Tags))
	for _, t := range rec.Tags {
		working[t.Slug] = struct{}{}
	}
	return &Session{
		ID:       uuid.NewString(),
		TargetID: rec.ID,
		working:  working,
		status:   StatusOpen,
		updater:  updater,
		logger:   logger,
		onSaved:  onSaved,
	}
}

// Status 当前状态
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastError 最近一次保存失败的错误（成功或未保存为 nil）
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Slugs 工作集合的有序快照
func (s *Session) Slugs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slugsLocked()
}

func (s *Session) slugsLocked() []string {
	out := make([]string, 0, len(s.working))
	for slug := range s.working {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// Toggle 在工作集合里增删一个 slug，仅本地变更
// 移除始终允许（记录可能带目录外的历史标签）；新增要求 slug 在目录里
func (s *Session) Toggle(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusOpen {
		return ErrNotOpen
	}
	if _, ok := s.working[slug]; ok {
		delete(s.working, slug)
		return nil
	}
	if _, ok := domain.TaxonomyBySlug(slug); !ok {
		return ErrUnknownTag
	}
	s.working[slug] = struct{}{}
	return nil
}

// Cancel 关闭会话，丢弃本地变更
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusClosed
	s.lastErr = nil
}

// Save 协商式持久化：先试 {tag_slugs:[...]}，失败则恰好再试一次 {tags:[...]}
// 两次都失败回到 Open 并保留错误供重试；任一成功转 Closed 并触发全量重拉
// Saving 期间的重复调用返回 ErrSaveInFlight，被忽略而不是排队
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.status == StatusSaving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	if s.status != StatusOpen {
		s.mu.Unlock()
		return ErrNotOpen
	}
	s.status = StatusSaving
	s.lastErr = nil
	slugs := s.slugsLocked()
	s.mu.Unlock()

	err := s.updater.SubmitTagUpdate(ctx, s.TargetID, payloadPreferred{TagSlugs: slugs})
	if err != nil {
		s.logger.Warn("tag update rejected with tag_slugs schema, retrying with tags schema",
			zap.Int64("customer_id", s.TargetID), zap.Error(err))
		err = s.updater.SubmitTagUpdate(ctx, s.TargetID, payloadFallback{Tags: slugs})
	}

	s.mu.Lock()
	if err != nil {
		s.status = StatusOpen
		s.lastErr = fmt.Errorf("failed to update tags: %w", err)
		saveErr := s.lastErr
		s.mu.Unlock()
		return saveErr
	}
	s.status = StatusClosed
	s.mu.Unlock()

	// 不做单条记录的乐观修补：一致性从源头重建
	if s.onSaved != nil {
		s.onSaved(ctx)
	}
	return nil
}
