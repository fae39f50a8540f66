package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams = orz.NewError(10400, "invalid parameters")
	ErrBotNotFound   = orz.NewError(10404, "bot not found")
	ErrBrokerage     = orz.NewError(10502, "brokerage request failed")
)
