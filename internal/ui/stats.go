package ui

import "sync/atomic"

type Stats struct {
	Chapters    atomic.Int64
	Pages       atomic.Int64
	FailedPages atomic.Int64
	Bytes       atomic.Int64
}
