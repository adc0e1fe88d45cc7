// Package watcher keeps an eye on the dataset source between requests.
//
// A Prober opens the source on a cron schedule and validates the CSV header.
// A FileWatcher reports modifications of a local dataset file via fsnotify.
// Both record into a Monitor whose Status snapshot backs the readiness
// endpoint. Requests never read from the watcher; every report still loads
// the dataset afresh.
package watcher
