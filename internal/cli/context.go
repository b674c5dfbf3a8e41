// Package cli provides the command-line interface for the newswatch application.
package cli

import (
	"context"

	"github.com/law-makers/newswatch/internal/app"
	"github.com/spf13/cobra"
)

// ctxKey is used for storing app context in cobra commands
type ctxKey string

const appKey ctxKey = "app"

// SetApp stores the Application in the command's context
func SetApp(cmd *cobra.Command, a *app.Application) {
	if cmd == nil {
		return
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey, a))
}

// GetAppFromCmd retrieves the Application from cmd or the nearest ancestor holding one
func GetAppFromCmd(cmd *cobra.Command) *app.Application {
	for c := cmd; c != nil; c = c.Parent() {
		ctx := c.Context()
		if ctx == nil {
			continue
		}
		if a, ok := ctx.Value(appKey).(*app.Application); ok && a != nil {
			return a
		}
	}
	return nil
}
