package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/schoolcrm/core/roster"
)

const registerCtxKey = "register"

// registerMiddleware resolves the :kind path param to its register and the path to a roster.Context.
// Unknown kinds are not found.
func registerMiddleware(regs map[string]register) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			reg, ok := regs[ctx.Param("kind")]
			if !ok {
				return errHttpNotFound
			}
			ctx.Set(registerCtxKey, reg)
			return next(ctx)
		}
	}
}

func getContextRegister(ctx echo.Context) (register, bool) {
	reg, ok := ctx.Get(registerCtxKey).(register)
	return reg, ok
}

func pathContext(ctx echo.Context, kind string) roster.Context {
	return roster.Context{Kind: kind, GroupID: ctx.Param("group"), Period: ctx.Param("period")}
}
