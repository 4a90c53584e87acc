package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"logoscan/internal/feature/logodetection/domain/entity"
)

// reporter は出力行をio.Writerへ書き込みます。
// 1回の書き込みで複数行をまとめて出力するため、並行実行時も行が混ざりません。
type reporter struct {
	mu sync.Mutex
	w  io.Writer
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w}
}

func (r *reporter) write(lines ...string) {
	if len(lines) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := io.WriteString(r.w, strings.Join(lines, "\n")+"\n"); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}

// RunSequential は識別子を1件ずつ順番に処理します。
// 現在の識別子の呼び出しが完了するまで次の識別子には進まないため、出力順は入力順と一致します。
// 戻り値は今回の実行IDです。
func (u *logodetectionUsecase) RunSequential(ctx context.Context, w io.Writer, fileNames []string) string {
	runID := u.newRunID()
	rep := newReporter(w)

	for _, fileName := range fileNames {
		rep.write(entity.StatusLine(fileName))
		outcome := u.scanOne(ctx, runID, fileName)
		rep.write(outcome.Lines()...)
	}
	return runID
}

// RunConcurrent はすべての識別子の検出を待たずに起動し、完了したものから結果を出力します。
// 識別子をまたいだ出力順は保証されませんが、各識別子のステータス行は必ずその結果より前に出力されます。
// すべてのタスクが完了するまで戻りません。
func (u *logodetectionUsecase) RunConcurrent(ctx context.Context, w io.Writer, fileNames []string) string {
	runID := u.newRunID()
	rep := newReporter(w)

	var g errgroup.Group
	for _, fileName := range fileNames {
		rep.write(entity.StatusLine(fileName))
		g.Go(func() error {
			outcome := u.scanOne(ctx, runID, fileName)
			rep.write(outcome.Lines()...)
			return nil
		})
	}
	// タスクはエラーを返さない
	_ = g.Wait()
	return runID
}
