package promptline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

func (c *Console) registerDefaults() error {
	builtins := []struct {
		name, description string
		fn                Func
	}{
		{"help", "Displays all the available commands", c.help},
		{"debug", "Toggles the logger between its current level and DEBUG", c.toggleDebug},
		{"exit", "Exits the input handler irreversibly", closeConsole},
		{"close", "Exits the input handler irreversibly", closeConsole},
	}
	for _, b := range builtins {
		if err := c.commands.Register(b.name, b.description, Any(), b.fn); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) help(ctx context.Context, args ...string) error {
	var sb strings.Builder
	sb.WriteString("Available commands:")
	for _, cmd := range c.commands.Commands() {
		fmt.Fprintf(&sb, "\n  %s: %s", cmd.Name, cmd.Description)
	}
	c.printer.Print(sb.String())
	return nil
}

func (c *Console) toggleDebug(ctx context.Context, args ...string) error {
	if c.level == nil {
		c.logger.Warn("No adjustable log level defined for this console")
		return nil
	}

	if c.level.Level() == slog.LevelDebug {
		c.level.Set(c.prevLevel)
		c.logger.Info("Debug mode is now off")
		return nil
	}
	c.prevLevel = c.level.Level()
	c.level.Set(slog.LevelDebug)
	c.logger.Info("Debug mode is now on")
	return nil
}

func closeConsole(ctx context.Context, args ...string) error {
	return ErrClosed
}
