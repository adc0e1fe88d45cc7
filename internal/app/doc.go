// Package app wires the report service together and runs it.
//
// NewApplication builds, in order:
//
//	1. OpenTelemetry providers and the report metrics
//	2. The dataset source selected by configuration (file, http or azblob)
//	3. The report and health services
//	4. The dataset monitor, prober and file watcher when watching is enabled
//	5. The chi router and the HTTP server
//
// Run listens on the configured port and blocks until its context is
// cancelled. The HTTP server and the file watcher run in one errgroup;
// cancellation or the first failure shuts the server down within
// ServerConfig.ShutdownTimeout and stops the prober.
//
// The caller owns configuration loading and process signals:
//
//	cfg, err := config.Load()
//	...
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	app, err := app.NewApplication(cfg, logger)
//	...
//	err = app.Run(ctx)
package app
