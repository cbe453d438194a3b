// Package store provides SQLite-based persistence for run history.
//
// The store keeps one row per completed generation run plus one row per
// document the run produced. The pipeline itself never reads the store;
// it exists for the web UI, the MCP tools and post-hoc inspection.
//
// # Basic Usage
//
//	db, err := store.NewSQLiteStore("mimircode.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	runs, err := db.ListRuns(ctx, 20)
//
// # Build Tags
//
// Two SQLite drivers are supported:
//
// CGO Build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3
//
//   - Requires a C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo"
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build
package store
