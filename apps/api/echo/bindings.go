package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/KB1707/CramJam/core"
)

var (
	optionParam  = "option"
	optionsParam = "options"
)

// ResultsQuery selects the poll whose results are wanted.
type ResultsQuery struct {
	Question string
	Options  []string
}

// Bind reads ?question=Q&option=A&option=B or ?question=Q&options=A,B.
func (rq *ResultsQuery) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	rq.Question = core.CleanString(data.Get("question"))

	for _, opt := range data[optionParam] {
		if opt = core.CleanString(opt); opt != "" {
			rq.Options = append(rq.Options, opt)
		}
	}
	if val, ok := data[optionsParam]; ok && len(val) > 0 {
		rq.Options = append(rq.Options, core.SplitList(val[0])...)
	}
}
