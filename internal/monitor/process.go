package monitor

import (
	"context"
	"errors"

	"github.com/opd-ai/go-systemkit/internal/platform"
)

// ListProcesses returns a record for every live process in pid order.
// Processes that exit between listing and reading are skipped.
func ListProcesses(ctx context.Context, src platform.ProcessProvider) ([]platform.ProcessRecord, error) {
	pids, err := src.Pids()
	if err != nil {
		return nil, NewComponentError(ErrorSourceProcess, err)
	}

	records := make([]platform.ProcessRecord, 0, len(pids))
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		rec, err := src.Info(pid)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return records, NewComponentError(ErrorSourceProcess, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
