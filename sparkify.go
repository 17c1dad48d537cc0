package sparkify

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/datazip-inc/sparkify/drivers/abstract"
	"github.com/datazip-inc/sparkify/protocol"
	"github.com/datazip-inc/sparkify/utils/logger"
)

// RegisterDriver builds the command line of a driver binary and executes it.
// An interrupt cancels the run between units.
func RegisterDriver(driver abstract.DriverInterface) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := protocol.CreateRootCommand(driver).ExecuteContext(ctx); err != nil {
		stop()
		_ = driver.Close()
		logger.Fatal(err)
	}
}
