package tui

import (
	"github.com/DuongDinhDang/newsapp/internal/session"
)

type syncStateMsg session.State

type searchStateMsg session.SearchState

type openErrMsg struct {
	err error
}
