package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"pizzatools/internal/core/application/usecases/queries"
	"pizzatools/internal/core/domain/model/order"
)

// boardRefreshSchedule runs every 30 seconds, the interval the store boards
// poll on.
const boardRefreshSchedule = "*/30 * * * * *"

// BoardRefreshJob periodically runs the dispatch board query. It keeps the
// state catalog cache warm between user requests and logs the board counts,
// which is the operational heartbeat the store staff watches in the logs.
type BoardRefreshJob struct {
	handler queries.GetBoardOrdersQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewBoardRefreshJob creates the board refresh job.
func NewBoardRefreshJob(handler queries.GetBoardOrdersQueryHandler, logger *slog.Logger) *BoardRefreshJob {
	return &BoardRefreshJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "board_refresh_job"),
	}
}

// Start begins the board refresh job on its 30 second schedule.
func (j *BoardRefreshJob) Start() error {
	_, err := j.cron.AddFunc(boardRefreshSchedule, j.refresh)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Board refresh job started (running every 30 seconds)")
	return nil
}

// Stop stops the board refresh job.
func (j *BoardRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Board refresh job stopped")
}

func (j *BoardRefreshJob) refresh() {
	ctx := context.Background()

	query, err := queries.NewGetBoardOrdersQuery([]string{
		order.StagePrepPending.String(),
		order.StageInOven.String(),
		order.StagePendingDelivery.String(),
		order.StageOutForDelivery.String(),
	}, "")
	if err != nil {
		j.logger.ErrorContext(ctx, "Board refresh query construction failed", "error", err)
		return
	}

	board, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Board refresh failed", "error", err)
		return
	}

	counts := make(map[string]int, 4)
	for _, o := range board {
		counts[o.Stage]++
	}
	j.logger.InfoContext(ctx, "Board refreshed",
		"total", len(board),
		"prepPending", counts[order.StagePrepPending.String()],
		"inOven", counts[order.StageInOven.String()],
		"pendingDelivery", counts[order.StagePendingDelivery.String()],
		"outForDelivery", counts[order.StageOutForDelivery.String()],
	)
}
