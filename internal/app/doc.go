// Package app is the composition root for the pipedeck dashboard.
//
// # Overview
//
// Run wires configuration, logging, the pipeline API client and the Bubble Tea
// program together:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> LoadConfig()        config.toml + flag overrides
//	       ├─────> logging.Setup()     zerolog to the log file
//	       ├─────> NewClient()         pipelineapi.Client
//	       ├─────> prefs.Load()        theme and DDL preferences
//	       └─────> ui.NewProgram()     runs under an errgroup until quit
//
// Unlike a background poller feeding a shared store, all refreshing happens
// inside the Bubble Tea program: the pipeline list loads on start and after
// every create or delete, and the details view polls its own write count.
//
// # Shutdown
//
// The program and a watcher run in one errgroup. Quitting the program cancels
// the watcher; cancelling ctx (SIGINT, SIGTERM) asks the program to quit.
//
// # Error Handling
//
// Configuration, logging and client setup errors are returned before the
// terminal is touched. Request failures inside the dashboard never end Run;
// they surface as toasts or, for write-count polling, only in the log.
package app
