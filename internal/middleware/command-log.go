package middleware

import (
	"context"
	"time"

	"kiwi-bot/internal/command"
	"kiwi-bot/pkg/cmd"

	"go.uber.org/zap"
)

// WithCommandLogger wraps a command to log its execution
func WithCommandLogger(log *zap.Logger) cmd.Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("command")
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			fields := []zap.Field{
				zap.String("command", c.Name()),
				zap.Duration("took", time.Since(start)),
			}
			switch v := inv.Data.(type) {
			case *command.SlashContext:
				fields = append(fields,
					zap.String("kind", command.KindSlash.String()),
					zap.String("guild_id", v.Guild()),
					zap.String("user_id", v.User()),
					zap.Int("level", v.Actor.Level))
			case *command.PrefixContext:
				fields = append(fields,
					zap.String("kind", command.KindPrefix.String()),
					zap.String("guild_id", v.Guild()),
					zap.String("user_id", v.User()),
					zap.Int("level", v.Actor.Level),
					zap.Strings("args", v.Args))
			}
			if err != nil {
				log.Warn("command returned error", append(fields, zap.Error(err))...)
			} else {
				log.Info("command executed", fields...)
			}
			return err
		})
	}
}
