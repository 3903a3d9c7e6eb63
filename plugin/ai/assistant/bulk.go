package assistant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/mailmind/plugin/ai"
)

// Bulk modes reported on every item.
const (
	ModeParallel   = "bulk_parallel"
	ModeSequential = "bulk_sequential"
)

// BulkOptions controls a bulk reply run.
type BulkOptions struct {
	Parallel bool
}

// BulkItem is the outcome of one request in a bulk run. Exactly one of Reply
// and Error is set.
type BulkItem struct {
	Index     int       `json:"email_index"`
	RequestID string    `json:"request_id"`
	Mode      string    `json:"mode"`
	Reply     *ai.Reply `json:"reply,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// GenerateReplies drafts a reply for every request. Items are returned in
// request order whatever the mode; one failing item never aborts the others.
func (s *Service) GenerateReplies(ctx context.Context, reqs []*ai.TaskRequest, opts BulkOptions) []BulkItem {
	mode := ModeSequential
	if opts.Parallel {
		mode = ModeParallel
	}

	items := make([]BulkItem, len(reqs))
	run := func(i int) {
		item := BulkItem{Index: i, RequestID: uuid.NewString(), Mode: mode}
		reply, err := s.generateReply(ctx, s.bulkInvoker, reqs[i])
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Reply = reply
		}
		items[i] = item
	}

	if !opts.Parallel {
		for i := range reqs {
			run(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.bulkConcurrency)
		for i := range reqs {
			g.Go(func() error {
				run(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	slog.Info("bulk replies completed", "count", len(reqs), "mode", mode)
	return items
}
