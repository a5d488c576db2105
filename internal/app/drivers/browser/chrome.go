package browser

import (
	"clinic-portal-service/internal/app/config"
	"context"
	"log"

	"github.com/chromedp/chromedp"
)

// NewChromeAllocator returns a browser allocator context shared by all PDF renders. When a remote
// debugging URL is configured it attaches to that browser instead of spawning one.
func NewChromeAllocator(driverConfig *config.DriverConfig) (context.Context, context.CancelFunc) {
	if driverConfig.Chrome.RemoteDebugURL != "" {
		log.Println("Attaching to remote chrome")
		return chromedp.NewRemoteAllocator(context.Background(), driverConfig.Chrome.RemoteDebugURL)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", driverConfig.Chrome.Headless),
		chromedp.Flag("no-sandbox", driverConfig.Chrome.NoSandbox),
		chromedp.DisableGPU,
	)
	if driverConfig.Chrome.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(driverConfig.Chrome.ExecPath))
	}

	log.Println("Successfully prepared chrome allocator")
	return chromedp.NewExecAllocator(context.Background(), opts...)
}
