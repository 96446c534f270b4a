package logsvc

import (
	"context"
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/user"
)

// RollbarLogger reports to rollbar and echoes every entry to a std logger.
// Debug entries are only echoed in debug mode.
type RollbarLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetCustom(map[string]interface{}{"app": conf.AppName, "room": conf.RoomName})
	return &RollbarLogger{std: std, debug: conf.Debug}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// prepare turns the args into rollbar's: msg, then error and extra data maps.
// A user.User arg becomes the rollbar person of this entry only, carried by the returned context.
func (l RollbarLogger) prepare(msg string, args []interface{}) (rbArgs []interface{}, ctx context.Context, usr *user.User) {
	ctx = context.Background()
	rbArgs = make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)
	for _, arg := range args {
		u, ok := arg.(user.User)
		if !ok {
			rbArgs = append(rbArgs, arg)
			continue
		}
		if usr == nil {
			usr = &u
			ctx = rollbar.NewPersonContext(ctx, &rollbar.Person{Id: u.ID, Username: u.Username})
		}
	}
	return rbArgs, ctx, usr
}

func (l RollbarLogger) report(ctx context.Context, level string, rbArgs []interface{}) {
	items := make([]interface{}, 0, len(rbArgs)+1)
	items = append(items, rbArgs...)
	rollbar.Log(level, append(items, ctx)...)
}

func (l RollbarLogger) print(level, msg string, args []interface{}, usr *user.User) {
	if usr != nil {
		l.std.Printf("%s %s (user: %s)\n", level, msg, usr.Username)
	} else {
		l.std.Printf("%s %s\n", level, msg)
	}
	for _, arg := range args[1:] {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rbArgs, ctx, usr := l.prepare(msg, args)
	l.report(ctx, rollbar.DEBUG, rbArgs)
	if l.debug {
		l.print("DEBUG", msg, rbArgs, usr)
	}
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, ctx, usr := l.prepare(msg, args)
	l.report(ctx, rollbar.INFO, rbArgs)
	l.print("INFO", msg, rbArgs, usr)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, ctx, usr := l.prepare(msg, args)
	l.report(ctx, rollbar.WARN, rbArgs)
	l.print("WARN", msg, rbArgs, usr)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, ctx, usr := l.prepare(msg, args)
	l.report(ctx, rollbar.ERR, rbArgs)
	l.print("ERROR", msg, rbArgs, usr)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, ctx, usr := l.prepare(msg, args)
	l.report(ctx, rollbar.CRIT, rbArgs)
	rollbar.Wait()
	l.print("FATAL", msg, rbArgs, usr)
	l.std.Fatal(msg)
}
