package main

import (
	"context"

	"gaafix-backend/cmd/fixtures-cli/commands"
	"gaafix-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.SetupFromEnv(ctx, "fixtures-cli")
	telemetry.InitSlog(true)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
