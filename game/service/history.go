package service

import "github.com/wricardo/klondike/game/engine"

// History paging limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// normalize fills in defaults and clamps the page size
func (o HistoryOptions) normalize() HistoryOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	switch {
	case o.Limit <= 0:
		o.Limit = DefaultHistoryLimit
	case o.Limit > MaxHistoryLimit:
		o.Limit = MaxHistoryLimit
	}
	if o.Order != "asc" {
		o.Order = "desc"
	}
	return o
}

// paginate slices the move log. Pages count from the newest move when
// Order is "desc" and from the first move when it is "asc".
func paginate(log []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	opts = opts.normalize()
	total := len(log)

	pages := (total + opts.Limit - 1) / opts.Limit
	if pages == 0 {
		pages = 1
	}

	moves := []engine.MoveHistoryEntry{}
	if opts.Page > pages {
		return page(moves, total, pages, opts)
	}
	start := (opts.Page - 1) * opts.Limit
	for i := start; i < start+opts.Limit && i < total; i++ {
		if opts.Order == "asc" {
			moves = append(moves, log[i])
		} else {
			moves = append(moves, log[total-1-i])
		}
	}

	return page(moves, total, pages, opts)
}

func page(moves []engine.MoveHistoryEntry, total, pages int, opts HistoryOptions) *HistoryResponse {
	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  pages,
		HasNext:     opts.Page < pages,
		HasPrevious: opts.Page > 1,
	}
}
